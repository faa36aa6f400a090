package patent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Description", "description"},
		{"Description:", "description"},
		{"  Cited By  ", "citedBy"},
		{"Cited By (12)", "citedBy"},
		{"Cited By: 12 documents", "citedBy"},
		{"Priority And Related Applications", "priorityAndRelatedApplications"},
		{"Family Cites Families", "familyCitesFamilies"},
		{"Non-Patent Citations (3)", "non-patentCitations"},
		{"DNA sequence", "dnaSequence"},
		{"related DNA", "relatedDna"},
		{"Légal événements", "légalÉvénements"},
		{"2nd Office Action", "2ndOfficeAction"},
		{"(Withdrawn)", ""},
		{"", ""},
		{" \t\n ", ""},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			assert.Equal(t, test.expected, normalizeLabel(test.text))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Abc", capitalize("abc"))
	assert.Equal(t, "Abc", capitalize("ABC"))
	assert.Equal(t, "École", capitalize("éCOLE"))
	assert.Equal(t, "1st", capitalize("1ST"))
}
