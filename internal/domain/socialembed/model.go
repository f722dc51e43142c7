// Package socialembed models the Facebook and Instagram posts embedded on
// the site.
package socialembed

import (
	"time"

	"github.com/microcosm-cc/bluemonday"

	"dkl/internal/domain/content"
)

// Platforms that may be embedded.
const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)

// SectionHome is the page section used when none is given.
const SectionHome = "home"

// embedPolicy allows the markup the platforms hand out for embeds and
// nothing else. Script tags are dropped; the page loads the platform SDKs.
var embedPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("iframe", "blockquote")
	p.AllowAttrs("src", "width", "height", "frameborder", "scrolling", "allow", "allowfullscreen", "title").OnElements("iframe")
	p.AllowAttrs("class", "data-instgrm-permalink", "data-instgrm-version", "data-instgrm-captioned", "cite").OnElements("blockquote")
	p.AllowAttrs("class").OnElements("div", "a", "p", "span")
	p.AllowURLSchemes("https")
	p.RequireNoFollowOnLinks(false)
	return p
}()

// Row is a social_media_embeds record as stored.
type Row struct {
	ID           string
	Platform     string
	Title        *string
	EmbedCode    string
	PostURL      *string
	Section      string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Embed is the view model. EmbedCode has been sanitised.
type Embed struct {
	ID           string `json:"id"`
	Platform     string `json:"platform"`
	Title        string `json:"title"`
	EmbedCode    string `json:"embedCode"`
	PostURL      string `json:"postUrl"`
	Section      string `json:"section"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
}

// ToView checks the row, sanitises its embed markup and maps it to an Embed.
// Rows whose markup is empty after sanitising are rejected.
// PRE: none
// POST: Returns an ErrInvalidRow-wrapping error when the row cannot be shown
func (r Row) ToView() (Embed, error) {
	if err := content.RequireText("id", r.ID); err != nil {
		return Embed{}, err
	}
	if r.Platform != PlatformFacebook && r.Platform != PlatformInstagram {
		return Embed{}, content.Invalid("platform", "is not facebook or instagram")
	}
	postURL := content.Text(r.PostURL)
	if err := content.CheckURL("post_url", postURL, false); err != nil {
		return Embed{}, err
	}
	if err := content.CheckOrder("display_order", r.DisplayOrder); err != nil {
		return Embed{}, err
	}
	code := Sanitize(r.EmbedCode)
	if err := content.RequireText("embed_code", code); err != nil {
		return Embed{}, err
	}
	return Embed{
		ID:           r.ID,
		Platform:     r.Platform,
		Title:        content.Text(r.Title),
		EmbedCode:    code,
		PostURL:      postURL,
		Section:      r.Section,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
	}, nil
}

// Sanitize strips everything from embed markup except platform embed tags.
func Sanitize(code string) string {
	return embedPolicy.Sanitize(code)
}
