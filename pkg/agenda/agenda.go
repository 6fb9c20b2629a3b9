package agenda

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

var ErrNotFound = errors.New("agenda: agenda not found")

// Agenda is an admin curated political topic posts can be tagged with.
type Agenda struct {
	Id         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	PolitScore float64   `json:"polit_score"`
	IsTrending bool      `json:"is_trending"`
	Created    time.Time `json:"created_at"`
}

var slugReplacer = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
	"Ç", "c", "Ğ", "g", "İ", "i", "Ö", "o", "Ş", "s", "Ü", "u",
)

// Slugify turns a title into a lowercase, dash separated ASCII slug.
func Slugify(title string) string {
	title = slugReplacer.Replace(title)

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
