package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslation_I18n(t *testing.T) {
	tests := []struct {
		name     string
		tr       Translation
		expected string
	}{
		{"empty", Translation{}, ""},
		{"only fr", Translation{FR: "Cabane"}, "Cabane"},
		{"de and fr", Translation{DE: "Hütte", FR: "Cabane"}, "Hütte"},
		{"en and it", Translation{EN: "Hut", IT: "Capanna"}, "Hut"},
		{"fr and it", Translation{FR: "Cabane", IT: "Capanna"}, "Cabane"},
		{"only it", Translation{IT: "Capanna"}, "Capanna"},
		{"all", Translation{DE: "Hütte", EN: "Hut", FR: "Cabane", IT: "Capanna"}, "Hütte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.tr.I18n())
			assert.Equal(t, tt.expected == "", tt.tr.IsEmpty())
		})
	}
}

func TestTranslation_Get(t *testing.T) {
	tr := Translation{DE: "Hütte", FR: "Cabane"}

	assert.Equal(t, "Hütte", tr.Get("de"))
	assert.Equal(t, "Cabane", tr.Get("fr"))
	assert.Equal(t, "", tr.Get("it"))
	assert.Equal(t, "", tr.Get("rm"))
}
