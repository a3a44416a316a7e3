package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterByName(t *testing.T) {
	parts := []Part{
		{PartName: "Bolt M6"},
		{PartName: "Nut M6"},
		{PartName: "Washer"},
	}

	got := FilterByName(parts, "m6")
	assert.Len(t, got, 2)
	assert.Equal(t, "Bolt M6", got[0].PartName)
	assert.Equal(t, "Nut M6", got[1].PartName)
}

func TestFilterByNameBlankQuery(t *testing.T) {
	parts := []Part{{PartName: "Bolt M6"}, {PartName: "Washer"}}

	assert.Equal(t, parts, FilterByName(parts, ""))
	assert.Equal(t, parts, FilterByName(parts, "   "))
}

func TestFilterByNameNoMatch(t *testing.T) {
	parts := []Part{{PartName: "Bolt M6"}}
	assert.Empty(t, FilterByName(parts, "resistor"))
}

func TestDisplayImagesPrecedence(t *testing.T) {
	p := Part{ImageURL: "a", ImageURLs: []string{"b", "c"}}
	assert.Equal(t, []string{"b", "c"}, p.DisplayImages())

	legacy := Part{ImageURL: "a"}
	assert.Equal(t, []string{"a"}, legacy.DisplayImages())

	assert.Nil(t, Part{}.DisplayImages())
}

func TestAllImageURLsDedup(t *testing.T) {
	p := Part{ImageURL: "a", ImageURLs: []string{"a", "b", "", "b"}}
	assert.Equal(t, []string{"a", "b"}, p.AllImageURLs())
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 12, ParseQuantity("12"))
	assert.Equal(t, 0, ParseQuantity(""))
	assert.Equal(t, 0, ParseQuantity("a dozen"))
	assert.Equal(t, -3, ParseQuantity("-3"))
}
