package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ekonomi":                     "ekonomi",
		"  Asgari Ücret Zammı 2024 ":  "asgari-ucret-zammi-2024",
		"Eğitim & Öğretim!!":          "egitim-ogretim",
		"İstanbul Seçimi":             "istanbul-secimi",
		"---":                         "",
		"already-a-slug":              "already-a-slug",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
