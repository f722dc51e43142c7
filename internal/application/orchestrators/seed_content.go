package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dkl/internal/adapters/storage/seed"
	titleStore "dkl/internal/adapters/storage/titlesection"
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

// SeedStore is a content table that can be counted and written.
type SeedStore[R any] interface {
	Save(ctx context.Context, r R) error
	Count(ctx context.Context) (int, error)
}

// TitleSectionSeedStore defines the title section capability needed by SeedContent.
type TitleSectionSeedStore interface {
	Get(ctx context.Context) (domainTitle.Row, error)
	Save(ctx context.Context, r domainTitle.Row) error
}

// SeedContentDeps holds dependencies for SeedContent.
type SeedContentDeps struct {
	Partners     SeedStore[domainPartner.Row]
	Sponsors     SeedStore[domainSponsor.Row]
	Videos       SeedStore[domainVideo.Row]
	Program      SeedStore[domainProgram.Row]
	CTACards     SeedStore[domainCTA.Row]
	SocialEmbeds SeedStore[domainSocial.Row]
	Photos       SeedStore[domainPhoto.Row]
	Radio        SeedStore[domainRadio.Row]
	FAQ          SeedStore[domainFAQ.Row]
	TitleSection TitleSectionSeedStore
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSeedContent fills empty content tables from c. Tables that already
// hold rows are left alone.
// PRE: deps are set
// POST: Every empty table holds the seed rows; returns the number of rows written
func ExecuteSeedContent(ctx context.Context, c seed.Content, deps SeedContentDeps) (int, error) {
	now := deps.Now()
	written := 0
	steps := []func() (int, error){
		func() (int, error) { return seedTable(ctx, "partners", deps.Partners, c.PartnerRows(now)) },
		func() (int, error) { return seedTable(ctx, "sponsors", deps.Sponsors, c.SponsorRows(now)) },
		func() (int, error) { return seedTable(ctx, "videos", deps.Videos, c.VideoRows(now)) },
		func() (int, error) { return seedTable(ctx, "program_schedule", deps.Program, c.ProgramRows(now)) },
		func() (int, error) { return seedTable(ctx, "cta_cards", deps.CTACards, c.CTACardRows(now)) },
		func() (int, error) { return seedTable(ctx, "social_media_embeds", deps.SocialEmbeds, c.SocialEmbedRows(now)) },
		func() (int, error) { return seedTable(ctx, "photos", deps.Photos, c.PhotoRows(now)) },
		func() (int, error) { return seedTable(ctx, "radio_recordings", deps.Radio, c.RadioRows(now)) },
		func() (int, error) { return seedTable(ctx, "faq_items", deps.FAQ, c.FAQRows(now)) },
		func() (int, error) { return seedTitle(ctx, c, deps, now) },
	}
	for _, step := range steps {
		n, err := step()
		if err != nil {
			return written, err
		}
		written += n
	}
	if written > 0 {
		slog.Info("content_seeded", "rows", written)
	}
	return written, nil
}

func seedTable[R any](ctx context.Context, table string, store SeedStore[R], rows []R) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	if n > 0 {
		return 0, nil
	}
	for _, r := range rows {
		if err := store.Save(ctx, r); err != nil {
			return 0, fmt.Errorf("seed %s: %w", table, err)
		}
	}
	return len(rows), nil
}

func seedTitle(ctx context.Context, c seed.Content, deps SeedContentDeps, now time.Time) (int, error) {
	_, err := deps.TitleSection.Get(ctx)
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, titleStore.ErrNotFound) {
		return 0, fmt.Errorf("get title section: %w", err)
	}
	row, ok := c.TitleRow(deps.GenerateID(), now)
	if !ok {
		return 0, nil
	}
	if err := deps.TitleSection.Save(ctx, row); err != nil {
		return 0, fmt.Errorf("seed title section: %w", err)
	}
	return 1, nil
}
