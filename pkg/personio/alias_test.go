package personio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeName(t *testing.T) {
	for label, want := range map[string]string{
		"Shirt size":          "shirt_size",
		"Größe (cm)":          "groesse_cm",
		"Lieblingsgetränk":    "lieblingsgetraenk",
		"Crème brûlée":        "creme_brulee",
		"  Multiple   spaces": "multiple_spaces",
		"2nd Job":             "nd_job",
		"Size2":               "size2",
		"Über uns":            "ueber_uns",
		"???":                 "",
		"":                    "",
	} {
		assert.Equal(t, want, AttributeName(label), label)
	}
}
