// Package radio models the recordings of the live radio broadcasts.
package radio

import (
	"time"

	"dkl/internal/domain/content"
)

// Row is a radio_recordings record as stored. Date is free text such as
// "15 mei 2024".
type Row struct {
	ID           string
	Title        string
	Description  *string
	Date         *string
	AudioURL     string
	ThumbnailURL *string
	Visible      bool
	OrderNumber  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Recording is the view model.
type Recording struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Date         string `json:"date,omitempty"`
	AudioURL     string `json:"audioUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Visible      bool   `json:"visible"`
	OrderNumber  int    `json:"orderNumber"`
}

// ToView checks the row and maps it to a Recording.
// PRE: none
// POST: Returns an ErrInvalidRow-wrapping error when id, title or the audio
// URL is unusable
func (r Row) ToView() (Recording, error) {
	if err := content.RequireText("id", r.ID); err != nil {
		return Recording{}, err
	}
	if err := content.RequireText("title", r.Title); err != nil {
		return Recording{}, err
	}
	if err := content.CheckURL("audio_url", r.AudioURL, true); err != nil {
		return Recording{}, err
	}
	thumb := content.Text(r.ThumbnailURL)
	if err := content.CheckURL("thumbnail_url", thumb, false); err != nil {
		return Recording{}, err
	}
	if err := content.CheckOrder("order_number", r.OrderNumber); err != nil {
		return Recording{}, err
	}
	return Recording{
		ID:           r.ID,
		Title:        r.Title,
		Description:  content.Text(r.Description),
		Date:         content.Text(r.Date),
		AudioURL:     r.AudioURL,
		ThumbnailURL: thumb,
		Visible:      r.Visible,
		OrderNumber:  r.OrderNumber,
	}, nil
}
