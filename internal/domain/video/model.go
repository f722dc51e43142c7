// Package video models the Streamable-hosted video gallery.
package video

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"dkl/internal/domain/content"
)

const (
	untitled      = "Ongetitelde video"
	noDescription = "Geen beschrijving beschikbaar"
)

var streamableID = regexp.MustCompile(`streamable\.com/(?:e/)?([a-zA-Z0-9]+)`)

// Row is a videos record as stored. Visible and OrderNumber are nullable.
type Row struct {
	ID           string
	VideoID      string
	URL          string
	Title        *string
	Description  *string
	ThumbnailURL *string
	Visible      *bool
	OrderNumber  *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Shown reports whether the video belongs in the gallery. NULL counts as visible.
func (r Row) Shown() bool {
	return r.Visible == nil || *r.Visible
}

// Video is the view model.
type Video struct {
	ID           string `json:"id"`
	VideoID      string `json:"videoId"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Alt          string `json:"alt"`
	Visible      bool   `json:"visible"`
	OrderNumber  int    `json:"orderNumber"`
}

// ToView normalises the embed URL, fills in the thumbnail and default texts,
// and rejects rows whose URL cannot be embedded.
// PRE: none
// POST: Returns an ErrInvalidRow-wrapping error for unusable rows
func (r Row) ToView() (Video, error) {
	if err := content.RequireText("id", r.ID); err != nil {
		return Video{}, err
	}
	embed, err := EmbedURL(r.URL, r.VideoID)
	if err != nil {
		return Video{}, err
	}
	id := cleanID(r.VideoID)
	if id == "" {
		id = ExtractID(embed)
	}
	v := Video{
		ID:           r.ID,
		VideoID:      id,
		URL:          embed,
		Title:        content.Text(r.Title),
		Description:  content.Text(r.Description),
		ThumbnailURL: content.Text(r.ThumbnailURL),
		Visible:      r.Shown(),
	}
	if r.OrderNumber != nil {
		v.OrderNumber = *r.OrderNumber
	}
	if err := content.CheckOrder("order_number", v.OrderNumber); err != nil {
		return Video{}, err
	}
	if v.Title == "" {
		v.Title = untitled
	}
	if v.Description == "" {
		v.Description = noDescription
	}
	if v.ThumbnailURL == "" && id != "" {
		v.ThumbnailURL = ThumbnailURL(id)
	}
	v.Alt = v.Title
	return v, nil
}

// EmbedURL returns the iframe URL for a stored video URL. Streamable links in
// any form become https://streamable.com/e/<id>; other absolute URLs pass
// through unchanged.
func EmbedURL(raw, videoID string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "streamable.com/e/") {
		return raw, nil
	}
	if strings.Contains(raw, "streamable.com") {
		id := cleanID(videoID)
		if id == "" {
			id = ExtractID(raw)
		}
		if id == "" {
			return "", content.Invalid("url", "has no streamable id")
		}
		return "https://streamable.com/e/" + id, nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", content.Invalid("url", "is not a valid url")
	}
	return u.String(), nil
}

// ExtractID returns the Streamable video ID in raw, or "".
func ExtractID(raw string) string {
	m := streamableID.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}

// ThumbnailURL returns the Streamable poster image for id.
func ThumbnailURL(id string) string {
	return "https://cdn-cf-east.streamable.com/image/" + cleanID(id) + ".jpg"
}

func cleanID(id string) string {
	return strings.TrimSpace(strings.Replace(id, "e/", "", 1))
}
