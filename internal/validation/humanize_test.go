package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"zipCode":       "Zip Code",
		"dni":           "Dni",
		"personalEmail": "Personal Email",
		"phone":         "Phone",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Humanize(in), "Humanize(%q)", in)
	}
}

func TestHTML(t *testing.T) {
	got := HTML([]string{
		"Current holder (Ana <script>) is missing: Phone",
		"Assigned location (Our office) is missing: State",
		"unrelated",
	})

	assert.Equal(t, []string{
		"<strong>Current holder</strong> (<strong>Ana &lt;script&gt;</strong>) is missing: Phone",
		"<strong>Assigned location</strong> (<strong>Our office</strong>) is missing: State",
		"unrelated",
	}, got)
}
