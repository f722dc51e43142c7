// Package titlesection models the hero block at the top of the home page.
package titlesection

import (
	"time"

	"dkl/internal/domain/content"
)

// Row is the single title_section_content record.
type Row struct {
	ID                 string
	EventTitle         string
	EventSubtitle      *string
	ImageURL           *string
	ImageAlt           *string
	Detail1Title       *string
	Detail1Description *string
	Detail2Title       *string
	Detail2Description *string
	Detail3Title       *string
	Detail3Description *string
	ParticipantCount   *int
	UpdatedAt          time.Time
}

// Detail is one of the highlighted facts under the title.
type Detail struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Section is the view model.
type Section struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	ImageURL         string   `json:"imageUrl"`
	ImageAlt         string   `json:"imageAlt"`
	Details          []Detail `json:"details"`
	ParticipantCount int      `json:"participantCount"`
}

// ToView checks the row and maps it to a Section. Details with neither a
// title nor a description are left out.
func (r Row) ToView() (Section, error) {
	if err := content.RequireText("id", r.ID); err != nil {
		return Section{}, err
	}
	if err := content.RequireText("event_title", r.EventTitle); err != nil {
		return Section{}, err
	}
	img := content.Text(r.ImageURL)
	if err := content.CheckURL("image_url", img, false); err != nil {
		return Section{}, err
	}
	s := Section{
		ID:       r.ID,
		Title:    r.EventTitle,
		Subtitle: content.Text(r.EventSubtitle),
		ImageURL: img,
		ImageAlt: content.Text(r.ImageAlt),
		Details:  []Detail{},
	}
	if s.ImageAlt == "" {
		s.ImageAlt = s.Title
	}
	pairs := [][2]*string{
		{r.Detail1Title, r.Detail1Description},
		{r.Detail2Title, r.Detail2Description},
		{r.Detail3Title, r.Detail3Description},
	}
	for _, p := range pairs {
		d := Detail{Title: content.Text(p[0]), Description: content.Text(p[1])}
		if d.Title == "" && d.Description == "" {
			continue
		}
		s.Details = append(s.Details, d)
	}
	if r.ParticipantCount != nil {
		if *r.ParticipantCount < 0 {
			return Section{}, content.Invalid("participant_count", "is negative")
		}
		s.ParticipantCount = *r.ParticipantCount
	}
	return s, nil
}
