// Package seed holds the initial site content and maps it to store rows.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	domainCTA "dkl/internal/domain/ctacard"
	domainFAQ "dkl/internal/domain/faq"
	domainPartner "dkl/internal/domain/partner"
	domainPhoto "dkl/internal/domain/photo"
	domainProgram "dkl/internal/domain/program"
	domainRadio "dkl/internal/domain/radio"
	domainSocial "dkl/internal/domain/socialembed"
	domainSponsor "dkl/internal/domain/sponsor"
	domainTitle "dkl/internal/domain/titlesection"
	domainVideo "dkl/internal/domain/video"
)

//go:embed content.yaml
var contentYAML []byte

// Content is the seed file as written.
type Content struct {
	TitleSection *TitleSection `yaml:"title_section"`
	Partners     []Partner     `yaml:"partners"`
	Sponsors     []Sponsor     `yaml:"sponsors"`
	Videos       []Video       `yaml:"videos"`
	Program      []ProgramItem `yaml:"program"`
	CTACards     []CTACard     `yaml:"cta_cards"`
	SocialEmbeds []SocialEmbed `yaml:"social_embeds"`
	Photos       []Photo       `yaml:"photos"`
	Radio        []Recording   `yaml:"radio_recordings"`
	FAQ          []FAQCategory `yaml:"faq"`
}

type TitleSection struct {
	Title            string   `yaml:"title"`
	Subtitle         string   `yaml:"subtitle"`
	ImageURL         string   `yaml:"image_url"`
	ImageAlt         string   `yaml:"image_alt"`
	ParticipantCount int      `yaml:"participant_count"`
	Details          []Detail `yaml:"details"`
}

type Detail struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Partner struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Logo        string `yaml:"logo"`
	Website     string `yaml:"website"`
	Tier        string `yaml:"tier"`
	Since       string `yaml:"since"`
	Order       int    `yaml:"order"`
}

type Sponsor struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	LogoURL     string `yaml:"logo_url"`
	WebsiteURL  string `yaml:"website_url"`
	Order       int    `yaml:"order"`
}

type Video struct {
	ID          string `yaml:"id"`
	VideoID     string `yaml:"video_id"`
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
}

type ProgramItem struct {
	ID          string   `yaml:"id"`
	Time        string   `yaml:"time"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Icon        string   `yaml:"icon"`
	Latitude    *float64 `yaml:"latitude"`
	Longitude   *float64 `yaml:"longitude"`
	Order       int      `yaml:"order"`
}

type CTACard struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	Subtitle   string `yaml:"subtitle"`
	ButtonText string `yaml:"button_text"`
	ButtonLink string `yaml:"button_link"`
	Order      int    `yaml:"order"`
}

type SocialEmbed struct {
	ID        string `yaml:"id"`
	Platform  string `yaml:"platform"`
	Title     string `yaml:"title"`
	EmbedCode string `yaml:"embed_code"`
	PostURL   string `yaml:"post_url"`
	Section   string `yaml:"section"`
	Order     int    `yaml:"order"`
}

type Photo struct {
	ID           string `yaml:"id"`
	URL          string `yaml:"url"`
	ThumbnailURL string `yaml:"thumbnail_url"`
	Alt          string `yaml:"alt"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Year         int    `yaml:"year"`
}

type Recording struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Date         string `yaml:"date"`
	AudioURL     string `yaml:"audio_url"`
	ThumbnailURL string `yaml:"thumbnail_url"`
	Order        int    `yaml:"order"`
}

type FAQCategory struct {
	Title     string        `yaml:"title"`
	Icon      string        `yaml:"icon"`
	Questions []FAQQuestion `yaml:"questions"`
}

type FAQQuestion struct {
	Question   string `yaml:"question"`
	Answer     string `yaml:"answer"`
	Icon       string `yaml:"icon"`
	ActionText string `yaml:"action_text"`
}

// Default returns the embedded seed content.
func Default() (Content, error) {
	return Parse(contentYAML)
}

// Parse decodes seed content. Unknown keys are rejected so typos in the
// file surface on boot.
func Parse(data []byte) (Content, error) {
	var c Content
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Content{}, fmt.Errorf("decode seed content: %w", err)
	}
	return c, nil
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func yes() *bool {
	v := true
	return &v
}

// TitleRow maps the title section, or returns false when none is defined.
func (c Content) TitleRow(id string, now time.Time) (domainTitle.Row, bool) {
	t := c.TitleSection
	if t == nil {
		return domainTitle.Row{}, false
	}
	r := domainTitle.Row{
		ID:               id,
		EventTitle:       t.Title,
		EventSubtitle:    opt(t.Subtitle),
		ImageURL:         opt(t.ImageURL),
		ImageAlt:         opt(t.ImageAlt),
		ParticipantCount: &t.ParticipantCount,
		UpdatedAt:        now,
	}
	slots := []struct{ title, desc **string }{
		{&r.Detail1Title, &r.Detail1Description},
		{&r.Detail2Title, &r.Detail2Description},
		{&r.Detail3Title, &r.Detail3Description},
	}
	for i, d := range t.Details {
		if i == len(slots) {
			break
		}
		*slots[i].title = opt(d.Title)
		*slots[i].desc = opt(d.Description)
	}
	return r, true
}

func (c Content) PartnerRows(now time.Time) []domainPartner.Row {
	out := make([]domainPartner.Row, len(c.Partners))
	for i, p := range c.Partners {
		out[i] = domainPartner.Row{
			ID: p.ID, Name: p.Name, Description: opt(p.Description), Logo: opt(p.Logo),
			Website: opt(p.Website), Tier: p.Tier, Since: p.Since, Visible: true,
			OrderNumber: p.Order, CreatedAt: now, UpdatedAt: now,
		}
	}
	return out
}

func (c Content) SponsorRows(now time.Time) []domainSponsor.Row {
	out := make([]domainSponsor.Row, len(c.Sponsors))
	for i, s := range c.Sponsors {
		out[i] = domainSponsor.Row{
			ID: s.ID, Name: s.Name, Description: opt(s.Description), LogoURL: s.LogoURL,
			WebsiteURL: opt(s.WebsiteURL), OrderNumber: s.Order, IsActive: true, Visible: yes(),
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return out
}

func (c Content) VideoRows(now time.Time) []domainVideo.Row {
	out := make([]domainVideo.Row, len(c.Videos))
	for i, v := range c.Videos {
		order := v.Order
		out[i] = domainVideo.Row{
			ID: v.ID, VideoID: v.VideoID, URL: v.URL, Title: opt(v.Title),
			Description: opt(v.Description), Visible: yes(), OrderNumber: &order,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return out
}

func (c Content) ProgramRows(now time.Time) []domainProgram.Row {
	out := make([]domainProgram.Row, len(c.Program))
	for i, p := range c.Program {
		out[i] = domainProgram.Row{
			ID: p.ID, Time: p.Time, EventDescription: p.Description, Category: opt(p.Category),
			IconName: opt(p.Icon), Latitude: p.Latitude, Longitude: p.Longitude,
			OrderNumber: p.Order, Visible: true, CreatedAt: now,
		}
	}
	return out
}

func (c Content) CTACardRows(now time.Time) []domainCTA.Row {
	out := make([]domainCTA.Row, len(c.CTACards))
	for i, card := range c.CTACards {
		out[i] = domainCTA.Row{
			ID: card.ID, Title: card.Title, Subtitle: opt(card.Subtitle), ButtonText: card.ButtonText,
			ButtonLink: card.ButtonLink, DisplayOrder: card.Order, IsActive: true,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return out
}

func (c Content) SocialEmbedRows(now time.Time) []domainSocial.Row {
	out := make([]domainSocial.Row, len(c.SocialEmbeds))
	for i, e := range c.SocialEmbeds {
		out[i] = domainSocial.Row{
			ID: e.ID, Platform: e.Platform, Title: opt(e.Title), EmbedCode: e.EmbedCode,
			PostURL: opt(e.PostURL), Section: e.Section, DisplayOrder: e.Order, IsActive: true,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return out
}

func (c Content) PhotoRows(now time.Time) []domainPhoto.Row {
	out := make([]domainPhoto.Row, len(c.Photos))
	for i, p := range c.Photos {
		r := domainPhoto.Row{
			ID: p.ID, URL: p.URL, AltText: p.Alt, ThumbnailURL: opt(p.ThumbnailURL),
			Title: opt(p.Title), Description: opt(p.Description), Visible: true,
			// Later entries in the file are older within a year.
			CreatedAt: now.Add(-time.Duration(i) * time.Second),
		}
		if p.Year != 0 {
			year := p.Year
			r.Year = &year
		}
		out[i] = r
	}
	return out
}

func (c Content) RadioRows(now time.Time) []domainRadio.Row {
	out := make([]domainRadio.Row, len(c.Radio))
	for i, r := range c.Radio {
		out[i] = domainRadio.Row{
			ID: r.ID, Title: r.Title, Description: opt(r.Description), Date: opt(r.Date),
			AudioURL: r.AudioURL, ThumbnailURL: opt(r.ThumbnailURL), Visible: true, OrderNumber: r.Order,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return out
}

// FAQRows flattens the categories in file order. IDs follow the position in
// the file; a question with an action_text leads to the registration form.
func (c Content) FAQRows(now time.Time) []domainFAQ.Row {
	var out []domainFAQ.Row
	for ci, cat := range c.FAQ {
		for qi, q := range cat.Questions {
			out = append(out, domainFAQ.Row{
				ID:           fmt.Sprintf("faq-%d-%d", ci+1, qi+1),
				Category:     cat.Title,
				CategoryIcon: cat.Icon,
				Question:     q.Question,
				Answer:       q.Answer,
				Icon:         q.Icon,
				Action:       q.ActionText != "",
				ActionText:   opt(q.ActionText),
				OrderNumber:  len(out),
				Visible:      true,
				CreatedAt:    now,
			})
		}
	}
	return out
}
