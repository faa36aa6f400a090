package patent_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ppiankov/patentia/internal/patent"
)

func runParse(src string, f func(t *testing.T, data patent.Node, logs string)) func(t *testing.T) {
	return func(t *testing.T) {
		buf := new(bytes.Buffer)
		logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		data, err := patent.Parse(src, patent.WithLogger(logger))
		require.NoError(t, err)

		f(t, data, buf.String())
	}
}

func TestParseMinimal(t *testing.T) {
	src := `<html><article><h2>Title</h2><span itemprop="num">42</span>` +
		`<section itemprop="abstract"><abstract>Sample</abstract></section></article></html>`

	t.Run("minimal", runParse(src, func(t *testing.T, data patent.Node, _ string) {
		require.Equal(t, patent.Node{
			"title":    patent.Node{"num": "42"},
			"abstract": patent.Node{"content": "Sample"},
		}, data)
	}))
}

func TestParseAbstract(t *testing.T) {
	src := `<html><body><article>
	<section itemprop="abstract" itemscope>
		<h2>Abstract</h2>
		<div itemprop="content" html>
			<abstract mxw-id="PA1" lang="EN" load-source="patent-office">
				<div class="abstract">A  device for
				<b>holding</b> things.</div>
			</abstract>
		</div>
	</section>
	</article></body></html>`

	t.Run("abstract", runParse(src, func(t *testing.T, data patent.Node, _ string) {
		require.Equal(t, patent.Node{
			"abstract": patent.Node{
				"mxw-id":      "PA1",
				"lang":        "EN",
				"load-source": "patent-office",
				"content":     "A device for holding things.",
			},
		}, data)
	}))
}

func TestParseDescription(t *testing.T) {
	t.Run("headings", runParse(`<html><body><article>
	<section itemprop="description" itemscope>
		<div itemprop="content" html>
			<div class="description" lang="EN" load-source="patent-office">
				<div class="description-paragraph description-line" num="0001">Intro</div>
				<heading id="h-0001">BACKGROUND</heading>
				<div class="description-line" num="0002">Back <i>one</i></div>
				<div class="description-line">Back two</div>
				<heading>SUMMARY</heading>
				<div class="description-line" num="0003">Sum</div>
			</div>
		</div>
	</section>
	</article></body></html>`, func(t *testing.T, data patent.Node, _ string) {
		require.Equal(t, patent.Node{
			"description": patent.Node{
				"lang":        "EN",
				"load-source": "patent-office",
				"parts": []patent.Node{
					{
						"heading": "",
						"lines": []patent.Node{
							{"num": "0001", "text": "Intro"},
						},
					},
					{
						"heading": "BACKGROUND",
						"lines": []patent.Node{
							{"num": "0002", "text": "Back one"},
							{"num": nil, "text": "Back two"},
						},
					},
					{
						"heading": "SUMMARY",
						"lines": []patent.Node{
							{"num": "0003", "text": "Sum"},
						},
					},
				},
			},
		}, data)
	}))

	t.Run("no headings", runParse(`<html><body><article>
	<section itemprop="description" itemscope>
		<div class="description">
			<p class="description-line" num="1">One</p>
			<p class="description-line" num="2">Two</p>
		</div>
	</section>
	</article></body></html>`, func(t *testing.T, data patent.Node, _ string) {
		require.Equal(t, patent.Node{
			"parts": []patent.Node{
				{
					"heading": "",
					"lines": []patent.Node{
						{"num": "1", "text": "One"},
						{"num": "2", "text": "Two"},
					},
				},
			},
		}, data["description"])
	}))

	t.Run("leading heading", runParse(`<html><body><article>
	<section itemprop="description" itemscope>
		<div class="description"><heading>FIELD</heading></div>
	</section>
	</article></body></html>`, func(t *testing.T, data patent.Node, _ string) {
		require.Equal(t, []patent.Node{
			{"heading": "", "lines": []patent.Node{}},
			{"heading": "FIELD", "lines": []patent.Node{}},
		}, data["description"].(patent.Node)["parts"])
	}))
}

func TestParseClaims(t *testing.T) {
	src := `<html><body><article>
	<section itemprop="claims" itemscope>
		<h2>Claims (2)</h2>
		<div itemprop="content" html>
			<div class="claims" lang="EN" load-source="patent-office" mxw-id="PCLM1">
				<div class="claim" id="CLM-00001" num="00001">
					<div class="claim-text">1. A widget comprising:
						<div class="claim-text">a lever; and</div>
						<div class="claim-text">a spring.</div>
					</div>
				</div>
				<div class="claim-dependent">
					<div id="CLM-00002" num="00002" class="claim">
						<div class="claim-text">2. The widget of
							<claim-ref idref="CLM-00001">claim 1</claim-ref>.</div>
					</div>
				</div>
			</div>
		</div>
	</section>
	</article></body></html>`

	t.Run("claims", runParse(src, func(t *testing.T, data patent.Node, _ string) {
		require.Equal(t, patent.Node{
			"lang":        "EN",
			"load-source": "patent-office",
			"mxw-id":      "PCLM1",
			"claims": []patent.Node{
				{
					"id":   "CLM-00001",
					"num":  "00001",
					"text": "1. A widget comprising: a lever; and a spring.",
				},
				{
					"id":   "CLM-00002",
					"num":  "00002",
					"text": "2. The widget of claim 1.",
				},
			},
		}, data["claims"])
	}))

	t.Run("one entry per claim", runParse(`<html><body><article>
	<section itemprop="claims" itemscope>
		<div class="claims">
			<div class="claim" num="1">
				<span class="claim-text">first part</span>
				<span class="claim-text">second part</span>
			</div>
		</div>
	</section>
	</article></body></html>`, func(t *testing.T, data patent.Node, _ string) {
		claims := data["claims"].(patent.Node)["claims"].([]patent.Node)
		require.Len(t, claims, 1)
		assert.Equal(t, "first part second part", claims[0]["text"])
	}))

	t.Run("no claims", runParse(`<html><body><article>
	<section itemprop="claims" itemscope><div class="claims" num="0"></div></section>
	</article></body></html>`, func(t *testing.T, data patent.Node, _ string) {
		require.Equal(t, patent.Node{"num": "0", "claims": []patent.Node{}}, data["claims"])
	}))
}

func TestParseUnhandledSection(t *testing.T) {
	src := `<html><body><article>
	<dt>Publication number</dt><dd itemprop="publicationNumber">US1234567B2</dd>
	<section itemprop="foo" itemscope><span itemprop="bar">x</span></section>
	<section itemprop="abstract" itemscope><abstract>Short.</abstract></section>
	</article></body></html>`

	t.Run("unhandled", runParse(src, func(t *testing.T, data patent.Node, logs string) {
		require.Equal(t, patent.Node{
			"publicationNumber": patent.Node{"publicationNumber": "US1234567B2"},
			"foo":               nil,
			"abstract":          patent.Node{"content": "Short."},
		}, data)
		assert.Contains(t, data, "foo")
		assert.Contains(t, logs, "unhandled section")
		assert.Contains(t, logs, "section=foo")
	}))
}

func TestParseSectionsOverrideProperties(t *testing.T) {
	src := `<html><body><article>
	<meta itemprop="abstract" content="from the walk">
	<section itemprop="abstract"><abstract>from the section</abstract></section>
	<section itemscope><p>no property</p></section>
	</article></body></html>`

	t.Run("override", runParse(src, func(t *testing.T, data patent.Node, logs string) {
		require.Equal(t, patent.Node{
			"abstract": patent.Node{"content": "from the section"},
		}, data)
		assert.Contains(t, logs, "skipping section without property")
	}))
}

func TestParseStructuralMismatch(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no article", `<html><body><div itemprop="x">1</div></body></html>`},
		{"no abstract element", `<html><article><section itemprop="abstract" itemscope><p>x</p></section></article></html>`},
		{"no description element", `<html><article><section itemprop="description" itemscope><p>x</p></section></article></html>`},
		{"no claims element", `<html><article><section itemprop="claims" itemscope><p>x</p></section></article></html>`},
		{"orphan claim text", `<html><article><section itemprop="claims" itemscope>
			<div class="claims"><div class="claim-text">x</div></div></section></article></html>`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := patent.Parse(test.src, patent.WithLogger(slog.New(slog.DiscardHandler)))
			require.Error(t, err)
			assert.True(t, errors.Is(err, patent.ErrStructuralMismatch), err.Error())
		})
	}

	t.Run("no html", func(t *testing.T) {
		_, err := patent.ParseNode(&html.Node{Type: html.DocumentNode})
		require.ErrorIs(t, err, patent.ErrStructuralMismatch)
	})
}

func TestParseReader(t *testing.T) {
	data, err := patent.ParseReader(strings.NewReader(
		`<html><article><dl><dt>Inventor</dt>` +
			`<dd itemprop="inventor" repeat>Ada Lovelace</dd>` +
			`<dd itemprop="inventor" repeat>Charles Babbage</dd></dl></article></html>`,
	), patent.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	require.Equal(t, patent.Node{
		"inventor": patent.Node{"inventor": []any{"Ada Lovelace", "Charles Babbage"}},
	}, data)
}
