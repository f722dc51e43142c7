// Package photo models the photo gallery.
package photo

import (
	"cmp"
	"slices"
	"time"

	"dkl/internal/domain/content"
)

// Row is a photos record as stored.
type Row struct {
	ID           string
	URL          string
	AltText      string
	ThumbnailURL *string
	Title        *string
	Description  *string
	Year         *int
	Visible      bool
	CreatedAt    time.Time
}

// Photo is the view model.
type Photo struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	AltText      string    `json:"altText"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Year         int       `json:"year,omitempty"`
	Visible      bool      `json:"visible"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToView checks the row and maps it to a Photo. The thumbnail falls back to
// the full image.
func (r Row) ToView() (Photo, error) {
	if err := content.RequireText("id", r.ID); err != nil {
		return Photo{}, err
	}
	if err := content.CheckURL("url", r.URL, true); err != nil {
		return Photo{}, err
	}
	thumb := content.Text(r.ThumbnailURL)
	if err := content.CheckURL("thumbnail_url", thumb, false); err != nil {
		return Photo{}, err
	}
	if thumb == "" {
		thumb = r.URL
	}
	p := Photo{
		ID:           r.ID,
		URL:          r.URL,
		AltText:      r.AltText,
		ThumbnailURL: thumb,
		Title:        content.Text(r.Title),
		Description:  content.Text(r.Description),
		Visible:      r.Visible,
		CreatedAt:    r.CreatedAt,
	}
	if p.AltText == "" {
		p.AltText = p.Title
	}
	if r.Year != nil {
		p.Year = *r.Year
	}
	return p, nil
}

// SortNewestFirst orders photos by year, then creation time, newest first.
// Photos without a year sort last.
func SortNewestFirst(photos []Photo) {
	slices.SortStableFunc(photos, func(a, b Photo) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
