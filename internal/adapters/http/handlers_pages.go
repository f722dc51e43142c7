package web

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"dkl/internal/application/loader"
	"dkl/internal/application/orchestrators"
	"dkl/internal/application/projections"
	"dkl/internal/domain/carousel"
	"dkl/internal/domain/contact"
	"dkl/internal/domain/modal"
	domainPartner "dkl/internal/domain/partner"
	domainPhoto "dkl/internal/domain/photo"
	domainRadio "dkl/internal/domain/radio"
	"dkl/internal/domain/registration"
	domainSponsor "dkl/internal/domain/sponsor"
	"dkl/internal/domain/submission"
	domainVideo "dkl/internal/domain/video"
)

// page is what the layout renders: the page body in Data plus the dialogs
// open for this view.
type page struct {
	Title     string
	Path      string
	CSRFField template.HTML
	Open      map[string]bool
	Flash     string
	Dialogs   dialogs
	Data      any
}

type dialogs struct {
	Contact      contactDialog
	Register     registerDialog
	Program      *projections.ProgramResult
	ProgramError string
	Sponsor      *domainSponsor.Sponsor
	PartnerTiers []domainPartner.TierGroup
	PartnerError string
	Privacy      template.HTML
	Terms        template.HTML
}

type contactDialog struct {
	Form    contact.Form
	Errors  submission.FieldErrors
	Message string
}

type registerDialog struct {
	Form          registration.Form
	Errors        submission.FieldErrors
	Message       string
	Open          bool
	Rollen        []string
	Afstanden     []string
	Ondersteuning []string
}

// flashes maps ?bedankt=<form> to the thank-you message after a redirect.
var flashes = map[string]string{
	"contact":    orchestrators.MsgContactSent,
	"aanmelding": orchestrators.MsgRegistrationSent,
}

// newPage builds the shared page state for a view with the dialogs in p.
func (s *Server) newPage(ctx context.Context, r *http.Request, title string, p *modal.Provider) page {
	pg := page{
		Title:     title,
		Path:      r.URL.Path,
		CSRFField: csrf.TemplateField(r),
		Open:      make(map[string]bool),
		Flash:     flashes[r.URL.Query().Get("bedankt")],
		Dialogs: dialogs{
			Register: registerDialog{
				Open:          s.cfg.Dates.RegistrationOpen(s.deps.Now()),
				Rollen:        registration.Rollen,
				Afstanden:     registration.Afstanden,
				Ondersteuning: registration.Ondersteuning,
			},
			Privacy: s.docs[docPrivacy],
			Terms:   s.docs[docTerms],
		},
	}
	for _, id := range p.OpenModals() {
		pg.Open[string(id)] = true
	}

	if p.IsOpen(modal.Program) {
		res, err := projections.QueryProgram(ctx, projections.ProgramQuery{Tab: string(p.SelectedTab())}, s.deps.Content)
		if err != nil {
			logFetchError("program", err)
			pg.Dialogs.ProgramError = projections.MsgProgram
		} else {
			pg.Dialogs.Program = &res
		}
	}
	if p.IsOpen(modal.Sponsor) {
		sponsors, err := projections.QuerySponsors(ctx, s.deps.Content)
		if err != nil {
			logFetchError("sponsors", err)
		} else if sp, ok := domainSponsor.Find(sponsors, p.SelectedSponsor()); ok {
			pg.Dialogs.Sponsor = &sp
		}
	}
	if p.IsOpen(modal.Partner) {
		partners, err := projections.QueryPartners(ctx, s.deps.Content)
		if err != nil {
			logFetchError("partners", err)
			pg.Dialogs.PartnerError = projections.MsgPartners
		} else {
			pg.Dialogs.PartnerTiers = domainPartner.GroupByTier(partners)
		}
	}
	return pg
}

// handleHome renders the landing page. Dialogs are opened with
// ?modal=<id>, optionally with &tab= for the program and &sponsor= for a
// sponsor.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, http.StatusOK, modal.FromQuery(r.URL.Query()), nil)
}

// renderHome renders the landing page; edit adjusts the dialogs before
// rendering, e.g. to show a rejected form again.
func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, status int, p *modal.Provider, edit func(*dialogs)) {
	ctx := r.Context()
	home, err := projections.QueryHome(ctx, projections.HomeQuery{Now: s.deps.Now(), Dates: s.cfg.Dates}, s.deps.Content)
	if err != nil {
		internalError(w, err)
		return
	}
	pg := s.newPage(ctx, r, "De Koninklijke Loop", p)
	pg.Path = "/"
	if edit != nil {
		edit(&pg.Dialogs)
	}
	pg.Data = home
	s.render(w, status, pageHome, pg)
}

// mediaView is one carousel on the media page.
type mediaView[T any] struct {
	State   loader.State[T]
	Current *T
	Index   int
	Prev    int
	Next    int
}

type mediaData struct {
	Photos     mediaView[domainPhoto.Photo]
	Videos     mediaView[domainVideo.Video]
	Radio      loader.State[domainRadio.Recording]
	PhotoParam int
	VideoParam int
}

// handleMedia renders the photo and video carousels and the radio
// recordings. ?photo=i&video=j pick the current slides; out-of-range values
// fall back to the first slide.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	photos := loader.New("photos", projections.MsgPhotos, func(ctx context.Context) ([]domainPhoto.Photo, error) {
		return projections.QueryPhotos(ctx, s.deps.Content)
	})
	defer photos.Close()
	videos := loader.New("videos", projections.MsgVideos, func(ctx context.Context) ([]domainVideo.Video, error) {
		return projections.QueryVideos(ctx, s.deps.Content)
	})
	defer videos.Close()
	radio := loader.New("radio_recordings", projections.MsgRadio, func(ctx context.Context) ([]domainRadio.Recording, error) {
		return projections.QueryRadioRecordings(ctx, s.deps.Content)
	})
	defer radio.Close()

	data := mediaData{
		Photos: carouselView(photos.Load(ctx), q.Get("photo")),
		Videos: carouselView(videos.Load(ctx), q.Get("video")),
		Radio:  radio.Load(ctx),
	}
	data.PhotoParam = data.Photos.Index
	data.VideoParam = data.Videos.Index

	pg := s.newPage(ctx, r, "Foto's en video's", modal.FromQuery(q))
	pg.Data = data
	s.render(w, http.StatusOK, pageMedia, pg)
}

func carouselView[T any](st loader.State[T], raw string) mediaView[T] {
	v := mediaView[T]{State: st}
	start, _ := strconv.Atoi(raw)
	c, err := carousel.New(len(st.Data), carousel.WithStart(start))
	if err != nil {
		return v
	}
	v.Index = c.Index()
	v.Current = &st.Data[v.Index]
	v.Prev = carousel.PreviousIndex(v.Index, c.Len())
	v.Next = carousel.NextIndex(v.Index, c.Len())
	return v
}

type docData struct {
	Body template.HTML
}

// handleDoc renders a markdown document as a full page.
func (s *Server) handleDoc(name string) http.HandlerFunc {
	title := map[string]string{
		docPrivacy: "Privacyverklaring",
		docTerms:   "Algemene voorwaarden",
	}[name]
	return func(w http.ResponseWriter, r *http.Request) {
		pg := s.newPage(r.Context(), r, title, modal.FromQuery(r.URL.Query()))
		pg.Data = docData{Body: s.docs[name]}
		s.render(w, http.StatusOK, pageDoc, pg)
	}
}
