package news

import (
	"time"
	"unicode/utf8"

	"github.com/RosuMadalin/tracking-tradings/internal/providers"
)

const (
	DefaultLimit  = 3
	ExcerptLength = 200

	FallbackTitle   = "No Title Available"
	FallbackSnippet = "No Description Available"
	FallbackURL     = "#"
)

// Card is an article with display defaults applied.
type Card struct {
	Title        string     `json:"title"`
	Snippet      string     `json:"snippet"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Publisher    string     `json:"publisher,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

func Present(a providers.Article) Card {
	card := Card{
		Title:        a.Title,
		Snippet:      Excerpt(a.Snippet, ExcerptLength),
		URL:          a.URL,
		ThumbnailURL: a.ThumbnailURL,
		Publisher:    a.Publisher,
	}
	if card.Title == "" {
		card.Title = FallbackTitle
	}
	if card.Snippet == "" {
		card.Snippet = FallbackSnippet
	}
	if card.URL == "" {
		card.URL = FallbackURL
	}
	if !a.PublishedAt.IsZero() {
		published := a.PublishedAt
		card.PublishedAt = &published
	}
	return card
}

// Cards presents at most limit articles. A non-positive limit keeps them all.
func Cards(articles []providers.Article, limit int) []Card {
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	out := make([]Card, 0, len(articles))
	for _, a := range articles {
		out = append(out, Present(a))
	}
	return out
}

// Excerpt cuts text to at most n runes, marking the cut with "...".
func Excerpt(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}
