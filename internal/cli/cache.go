package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/patentia/internal/cache"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parse cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached parse result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		c := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}

		logger.Debug("cache cleared", "dir", cfg.Cache.Dir)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared cache: %s\n", cfg.Cache.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
