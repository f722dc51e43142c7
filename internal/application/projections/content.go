package projections

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	titleStore "dkl/internal/adapters/storage/titlesection"
	"dkl/internal/domain/content"
	domainCTA "dkl/internal/domain/ctacard"
	domainPartner "dkl/internal/domain/partner"
	domainPhoto "dkl/internal/domain/photo"
	domainRadio "dkl/internal/domain/radio"
	domainSocial "dkl/internal/domain/socialembed"
	domainSponsor "dkl/internal/domain/sponsor"
	domainTitle "dkl/internal/domain/titlesection"
	domainVideo "dkl/internal/domain/video"
)

// Messages shown when a list cannot be loaded.
const (
	MsgPartners     = "Er ging iets mis bij het ophalen van de partners"
	MsgSponsors     = "Er ging iets mis bij het ophalen van de sponsors"
	MsgVideos       = "Er ging iets mis bij het ophalen van de video's"
	MsgProgram      = "Kon het programma niet laden."
	MsgCTACards     = "Er ging iets mis bij het ophalen van de kaarten"
	MsgSocialEmbeds = "Er ging iets mis bij het ophalen van de social media berichten"
	MsgPhotos       = "Er ging iets mis bij het ophalen van de foto's"
	MsgTitleSection = "Er ging iets mis bij het ophalen van de titelsectie"
	MsgRadio        = "Er ging iets mis bij het ophalen van de radio opnames"
	MsgFAQ          = "Er ging iets mis bij het ophalen van de veelgestelde vragen"
)

// toViews maps rows to view models. Rows that fail their shape check are
// logged and dropped.
func toViews[R any, V any](entity string, rows []R, id func(R) string, toView func(R) (V, error)) []V {
	out := make([]V, 0, len(rows))
	for _, r := range rows {
		v, err := toView(r)
		if err != nil {
			slog.Warn("content_row_dropped", "entity", entity, "id", id(r), "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// QueryPartners returns visible partners ordered by order_number.
// PRE: deps.Partners is set
// POST: Every returned partner is visible and passed its shape check
func QueryPartners(ctx context.Context, deps ContentDeps) ([]domainPartner.Partner, error) {
	rows, err := deps.Partners.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	views := toViews("partner", rows, func(r domainPartner.Row) string { return r.ID }, domainPartner.Row.ToView)
	views = content.Keep(views, func(p domainPartner.Partner) bool { return p.Visible })
	content.SortByKey(views, func(p domainPartner.Partner) int { return p.OrderNumber })
	return views, nil
}

// QuerySponsors returns active, visible sponsors ordered by order_number.
// PRE: deps.Sponsors is set
// POST: Every returned sponsor is active and visible
func QuerySponsors(ctx context.Context, deps ContentDeps) ([]domainSponsor.Sponsor, error) {
	rows, err := deps.Sponsors.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	rows = content.Keep(rows, domainSponsor.Row.Shown)
	views := toViews("sponsor", rows, func(r domainSponsor.Row) string { return r.ID }, domainSponsor.Row.ToView)
	content.SortByKey(views, func(s domainSponsor.Sponsor) int { return s.OrderNumber })
	return views, nil
}

// QueryVideos returns visible videos with embed URLs, ordered by order_number.
func QueryVideos(ctx context.Context, deps ContentDeps) ([]domainVideo.Video, error) {
	rows, err := deps.Videos.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	rows = content.Keep(rows, domainVideo.Row.Shown)
	views := toViews("video", rows, func(r domainVideo.Row) string { return r.ID }, domainVideo.Row.ToView)
	content.SortByKey(views, func(v domainVideo.Video) int { return v.OrderNumber })
	return views, nil
}

// QueryCTACards returns active cards ordered by display_order.
func QueryCTACards(ctx context.Context, deps ContentDeps) ([]domainCTA.Card, error) {
	rows, err := deps.CTACards.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cta cards: %w", err)
	}
	rows = content.Keep(rows, func(r domainCTA.Row) bool { return r.IsActive })
	views := toViews("cta_card", rows, func(r domainCTA.Row) string { return r.ID }, domainCTA.Row.ToView)
	content.SortByKey(views, func(c domainCTA.Card) int { return c.DisplayOrder })
	return views, nil
}

// QuerySocialEmbeds returns the active, sanitised embeds of one page section.
// An empty section means the home page.
func QuerySocialEmbeds(ctx context.Context, section string, deps ContentDeps) ([]domainSocial.Embed, error) {
	if section == "" {
		section = domainSocial.SectionHome
	}
	rows, err := deps.SocialEmbeds.ListActive(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("list social embeds: %w", err)
	}
	rows = content.Keep(rows, func(r domainSocial.Row) bool { return r.IsActive && r.Section == section })
	views := toViews("social_embed", rows, func(r domainSocial.Row) string { return r.ID }, domainSocial.Row.ToView)
	content.SortByKey(views, func(e domainSocial.Embed) int { return e.DisplayOrder })
	return views, nil
}

// QueryPhotos returns visible photos, newest first.
func QueryPhotos(ctx context.Context, deps ContentDeps) ([]domainPhoto.Photo, error) {
	rows, err := deps.Photos.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	rows = content.Keep(rows, func(r domainPhoto.Row) bool { return r.Visible })
	views := toViews("photo", rows, func(r domainPhoto.Row) string { return r.ID }, domainPhoto.Row.ToView)
	domainPhoto.SortNewestFirst(views)
	return views, nil
}

// QueryRadioRecordings returns visible recordings ordered by order_number.
func QueryRadioRecordings(ctx context.Context, deps ContentDeps) ([]domainRadio.Recording, error) {
	rows, err := deps.Radio.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list radio recordings: %w", err)
	}
	rows = content.Keep(rows, func(r domainRadio.Row) bool { return r.Visible })
	views := toViews("radio_recording", rows, func(r domainRadio.Row) string { return r.ID }, domainRadio.Row.ToView)
	content.SortByKey(views, func(r domainRadio.Recording) int { return r.OrderNumber })
	return views, nil
}

// QueryTitleSection returns the hero section, or nil when none is stored.
// PRE: deps.TitleSection is set
// POST: A stored row that fails its shape check is reported as an error
func QueryTitleSection(ctx context.Context, deps ContentDeps) (*domainTitle.Section, error) {
	row, err := deps.TitleSection.Get(ctx)
	if errors.Is(err, titleStore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get title section: %w", err)
	}
	s, err := row.ToView()
	if err != nil {
		slog.Warn("content_row_dropped", "entity", "title_section", "id", row.ID, "error", err)
		return nil, err
	}
	return &s, nil
}

// ContentDeps holds the content stores. Queries use only the store they need.
type ContentDeps struct {
	Partners     PartnerStore
	Sponsors     SponsorStore
	Videos       VideoStore
	Program      ProgramStore
	CTACards     CTACardStore
	SocialEmbeds SocialEmbedStore
	Photos       PhotoStore
	TitleSection TitleSectionStore
	Steps        StepsStore
	Radio        RadioStore
	FAQ          FAQStore
}
