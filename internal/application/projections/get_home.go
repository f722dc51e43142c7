package projections

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"dkl/internal/application/loader"
	domainCTA "dkl/internal/domain/ctacard"
	"dkl/internal/domain/event"
	domainPartner "dkl/internal/domain/partner"
	domainSocial "dkl/internal/domain/socialembed"
	domainSponsor "dkl/internal/domain/sponsor"
	domainSteps "dkl/internal/domain/steps"
	domainTitle "dkl/internal/domain/titlesection"
)

// HomeResult carries every section of the home page. Each list has its own
// state so one failing table does not blank the page.
type HomeResult struct {
	Title        *domainTitle.Section
	TitleError   string
	Cards        loader.State[domainCTA.Card]
	Partners     loader.State[domainPartner.Partner]
	PartnerTiers []domainPartner.TierGroup
	Sponsors     loader.State[domainSponsor.Sponsor]
	Embeds       loader.State[domainSocial.Embed]
	TotalSteps   int64
	DaysUntil    int
	Registration bool
	EarlyBird    bool
	EventPassed  bool
}

// HomeQuery carries the moment the page is rendered for.
type HomeQuery struct {
	Now   time.Time
	Dates event.Dates
}

// QueryHome loads all home page sections concurrently.
// PRE: all stores in deps are set
// POST: Section failures are reported in their state; the error is nil
// unless ctx is cancelled
func QueryHome(ctx context.Context, query HomeQuery, deps ContentDeps) (HomeResult, error) {
	cards := loader.New("cta_cards", MsgCTACards, func(ctx context.Context) ([]domainCTA.Card, error) {
		return QueryCTACards(ctx, deps)
	})
	partners := loader.New("partners", MsgPartners, func(ctx context.Context) ([]domainPartner.Partner, error) {
		return QueryPartners(ctx, deps)
	})
	sponsors := loader.New("sponsors", MsgSponsors, func(ctx context.Context) ([]domainSponsor.Sponsor, error) {
		return QuerySponsors(ctx, deps)
	})
	embeds := loader.New("social_embeds", MsgSocialEmbeds, func(ctx context.Context) ([]domainSocial.Embed, error) {
		return QuerySocialEmbeds(ctx, domainSocial.SectionHome, deps)
	})

	res := HomeResult{
		DaysUntil:    query.Dates.DaysUntil(query.Now),
		Registration: query.Dates.RegistrationOpen(query.Now),
		EarlyBird:    query.Dates.EarlyBirdActive(query.Now),
		EventPassed:  query.Dates.Passed(query.Now),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { res.Cards = cards.Load(gctx); return nil })
	g.Go(func() error { res.Partners = partners.Load(gctx); return nil })
	g.Go(func() error { res.Sponsors = sponsors.Load(gctx); return nil })
	g.Go(func() error { res.Embeds = embeds.Load(gctx); return nil })
	g.Go(func() error {
		s, err := QueryTitleSection(gctx, deps)
		if err != nil {
			res.TitleError = MsgTitleSection
			return nil
		}
		res.Title = s
		return nil
	})
	g.Go(func() error {
		// The counter starts at zero when the total cannot be read; the
		// push channel corrects it.
		total, err := deps.Steps.Total(gctx)
		if err == nil {
			res.TotalSteps = total
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return HomeResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return HomeResult{}, fmt.Errorf("load home: %w", err)
	}
	res.PartnerTiers = domainPartner.GroupByTier(res.Partners.Data)
	return res, nil
}

// QueryLeaderboard returns the top participants.
func QueryLeaderboard(ctx context.Context, deps ContentDeps) ([]domainSteps.Entry, error) {
	ps, err := deps.Steps.Top(ctx, domainSteps.LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("top participants: %w", err)
	}
	return domainSteps.Leaderboard(ps, domainSteps.LeaderboardSize), nil
}
