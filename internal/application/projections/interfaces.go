package projections

import (
	"context"

	domainCTA "dkl/internal/domain/ctacard"
	domainFAQ "dkl/internal/domain/faq"
	domainPartner "dkl/internal/domain/partner"
	domainPhoto "dkl/internal/domain/photo"
	domainProgram "dkl/internal/domain/program"
	domainRadio "dkl/internal/domain/radio"
	domainSocial "dkl/internal/domain/socialembed"
	domainSponsor "dkl/internal/domain/sponsor"
	domainSteps "dkl/internal/domain/steps"
	domainTitle "dkl/internal/domain/titlesection"
	domainVideo "dkl/internal/domain/video"
)

// PartnerStore interface for partner queries.
type PartnerStore interface {
	ListVisible(ctx context.Context) ([]domainPartner.Row, error)
}

// SponsorStore interface for sponsor queries.
type SponsorStore interface {
	ListActive(ctx context.Context) ([]domainSponsor.Row, error)
}

// VideoStore interface for video queries.
type VideoStore interface {
	ListVisible(ctx context.Context) ([]domainVideo.Row, error)
}

// ProgramStore interface for schedule queries.
type ProgramStore interface {
	ListVisible(ctx context.Context) ([]domainProgram.Row, error)
}

// CTACardStore interface for call-to-action card queries.
type CTACardStore interface {
	ListActive(ctx context.Context) ([]domainCTA.Row, error)
}

// SocialEmbedStore interface for social embed queries.
type SocialEmbedStore interface {
	ListActive(ctx context.Context, section string) ([]domainSocial.Row, error)
}

// PhotoStore interface for photo queries.
type PhotoStore interface {
	ListVisible(ctx context.Context) ([]domainPhoto.Row, error)
}

// TitleSectionStore interface for the title section.
type TitleSectionStore interface {
	Get(ctx context.Context) (domainTitle.Row, error)
}

// StepsStore interface for counter queries.
type StepsStore interface {
	Total(ctx context.Context) (int64, error)
	Top(ctx context.Context, n int) ([]domainSteps.Participant, error)
}

// RadioStore interface for radio recording queries.
type RadioStore interface {
	ListVisible(ctx context.Context) ([]domainRadio.Row, error)
}

// FAQStore interface for the assistant's questions.
type FAQStore interface {
	ListVisible(ctx context.Context) ([]domainFAQ.Row, error)
}
