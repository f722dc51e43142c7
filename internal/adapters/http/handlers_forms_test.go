package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"dkl/internal/application/orchestrators"
	"dkl/internal/domain/registration"
	"dkl/internal/domain/submission"
)

const (
	validContact      = `{"naam":"Anna de Vries","email":"anna@example.nl","bericht":"Mag mijn hond mee?","privacy_akkoord":true}`
	validRegistration = `{"naam":"Bram Jansen","email":"bram@example.nl","rol":"Deelnemer","afstand":"6 KM","ondersteuning":"Nee","terms":true}`
)

type submitResponse struct {
	ID          string            `json:"id"`
	EmailSent   bool              `json:"emailSent"`
	Message     string            `json:"message"`
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

func TestContactAPI(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		status    int
		message   string
		errField  string
		wantEmail bool
	}{
		{"valid", validContact, http.StatusOK, orchestrators.MsgContactSent, "", true},
		{"short name", `{"naam":"A","email":"anna@example.nl","bericht":"Hoi","privacy_akkoord":true}`, http.StatusBadRequest, "", "naam", false},
		{"no consent", `{"naam":"Anna","email":"anna@example.nl","bericht":"Hoi","privacy_akkoord":false}`, http.StatusBadRequest, "", "privacy_akkoord", false},
		{"honeypot", `{"naam":"Bot","email":"bot@example.nl","bericht":"Koop nu","privacy_akkoord":true,"website":"spam.example"}`, http.StatusOK, orchestrators.MsgContactSent, "", false},
		{"unknown field", `{"naam":"Anna","admin":true}`, http.StatusBadRequest, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			rec := env.postJSON("/api/contact", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			var got submitResponse
			decodeJSON(t, rec, &got)
			if tt.message != "" && got.Message != tt.message {
				t.Errorf("message = %q, want %q", got.Message, tt.message)
			}
			if tt.errField != "" && got.FieldErrors[tt.errField] == "" {
				t.Errorf("no field error on %s: %+v", tt.errField, got.FieldErrors)
			}
			if sent := len(env.sender.Sent()) > 0; sent != tt.wantEmail {
				t.Errorf("email sent = %v, want %v", sent, tt.wantEmail)
			}
		})
	}
}

func TestContactAPI_EmailFailureQueuesOutbox(t *testing.T) {
	env := newTestEnv(t, func(_ *Config, d *Deps) {
		d.Email = failingSender{err: errors.New("resend: 503")}
	})
	rec := env.postJSON("/api/contact", validContact)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var got submitResponse
	decodeJSON(t, rec, &got)
	if got.Error != orchestrators.MsgSubmitFailed {
		t.Errorf("error = %q, want %q", got.Error, orchestrators.MsgSubmitFailed)
	}
	due, err := env.outbox.ListDue(context.Background(), testNow, 10)
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	if len(due) == 0 {
		t.Error("no outbox entries queued after a failed send")
	}
}

func TestRegistrationAPI(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postJSON("/api/registration", validRegistration)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got submitResponse
	decodeJSON(t, rec, &got)
	if got.Message != orchestrators.MsgRegistrationSent || !got.EmailSent || got.ID == "" {
		t.Errorf("response = %+v", got)
	}

	rec = env.postJSON("/api/registration", validRegistration)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", rec.Code)
	}
	got = submitResponse{}
	decodeJSON(t, rec, &got)
	if got.FieldErrors["email"] == "" {
		t.Errorf("duplicate field errors = %+v, want email", got.FieldErrors)
	}
}

func TestRegistrationAPI_Closed(t *testing.T) {
	env := newTestEnv(t, func(_ *Config, d *Deps) {
		d.Now = func() time.Time { return testDates.RegistrationDeadline.Add(time.Hour) }
	})
	rec := env.postJSON("/api/registration", validRegistration)
	if rec.Code != http.StatusGone {
		t.Fatalf("status = %d, want 410", rec.Code)
	}
	var got submitResponse
	decodeJSON(t, rec, &got)
	if got.Error != msgRegistrationClosed {
		t.Errorf("error = %q, want %q", got.Error, msgRegistrationClosed)
	}
}

func TestSubmitOutcome(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"ok", nil, http.StatusOK, "klaar"},
		{"fields", submission.FieldErrors{"naam": "te kort"}, http.StatusBadRequest, msgCheckFields},
		{"in flight", submission.ErrInFlight, http.StatusConflict, msgInFlight},
		{"closed", registration.ErrClosed, http.StatusGone, msgRegistrationClosed},
		{"email", orchestrators.ErrEmailNotSent, http.StatusInternalServerError, orchestrators.MsgSubmitFailed},
		{"other", errors.New("disk full"), http.StatusInternalServerError, orchestrators.MsgSubmitFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg, _ := submitOutcome(submission.Result{Message: "klaar"}, tt.err)
			if status != tt.status || msg != tt.msg {
				t.Errorf("submitOutcome = %d %q, want %d %q", status, msg, tt.status, tt.msg)
			}
		})
	}
}

// formSession opens a page and returns the CSRF token and cookies a browser
// would submit the dialog form with.
func formSession(t *testing.T, env *testEnv, target string) (string, []*http.Cookie) {
	t.Helper()
	rec := env.get(target)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d", target, rec.Code)
	}
	cookies := rec.Result().Cookies()
	doc := parseHTML(t, rec.Body)
	token, ok := doc.Find(`input[name="gorilla.csrf.Token"]`).First().Attr("value")
	if !ok || token == "" {
		t.Fatalf("no csrf token on %s", target)
	}
	return token, cookies
}

func postForm(env *testEnv, target, token string, cookies []*http.Cookie, form url.Values) *httptest.ResponseRecorder {
	form.Set("gorilla.csrf.Token", token)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return env.do(req)
}

func TestContactForm(t *testing.T) {
	env := newTestEnv(t, nil)
	token, cookies := formSession(t, env, "/?modal=contact")

	rec := postForm(env, "/contact", token, cookies, url.Values{
		"naam":            {"Anna de Vries"},
		"email":           {"anna@example.nl"},
		"bericht":         {"Mag mijn hond mee?"},
		"privacy_akkoord": {"on"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 (body %s)", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/?bedankt=contact" {
		t.Errorf("Location = %q", loc)
	}

	doc := parseHTML(t, env.get("/?bedankt=contact").Body)
	if got := strings.TrimSpace(doc.Find(".flash").Text()); got != orchestrators.MsgContactSent {
		t.Errorf("flash = %q, want %q", got, orchestrators.MsgContactSent)
	}
}

func TestContactForm_InvalidShowsDialogAgain(t *testing.T) {
	env := newTestEnv(t, nil)
	token, cookies := formSession(t, env, "/?modal=contact")

	rec := postForm(env, "/contact", token, cookies, url.Values{
		"naam":    {"A"},
		"email":   {"anna@example.nl"},
		"bericht": {"Hoi"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	doc := parseHTML(t, rec.Body)
	if doc.Find("dialog#contact[open]").Length() != 1 {
		t.Fatal("contact dialog not open")
	}
	for _, field := range []string{"naam", "privacy_akkoord"} {
		if doc.Find(`.field-error[data-field="` + field + `"]`).Length() != 1 {
			t.Errorf("no error shown for %s", field)
		}
	}
	if got := doc.Find(`input[name="email"]`).AttrOr("value", ""); got != "anna@example.nl" {
		t.Errorf("email input = %q, want the submitted value", got)
	}
	if len(env.sender.Sent()) != 0 {
		t.Error("email sent for an invalid form")
	}
}

func TestContactForm_WithoutTokenRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("naam=Anna"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := env.do(req); rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRegistrationForm(t *testing.T) {
	env := newTestEnv(t, nil)
	token, cookies := formSession(t, env, "/?modal=register")

	rec := postForm(env, "/aanmelden", token, cookies, url.Values{
		"naam":          {"Bram Jansen"},
		"email":         {"bram@example.nl"},
		"rol":           {"Deelnemer"},
		"afstand":       {"10 KM"},
		"ondersteuning": {"Nee"},
		"terms":         {"on"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 (body %s)", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/?bedankt=aanmelding" {
		t.Errorf("Location = %q", loc)
	}
}

func TestRegistrationForm_SupportNeedsDetails(t *testing.T) {
	env := newTestEnv(t, nil)
	token, cookies := formSession(t, env, "/?modal=register")

	rec := postForm(env, "/aanmelden", token, cookies, url.Values{
		"naam":          {"Bram Jansen"},
		"email":         {"bram@example.nl"},
		"rol":           {"Deelnemer"},
		"afstand":       {"10 KM"},
		"ondersteuning": {"Ja"},
		"terms":         {"on"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	doc := parseHTML(t, rec.Body)
	if doc.Find(`.field-error[data-field="bijzonderheden"]`).Length() != 1 {
		t.Error("no error shown for bijzonderheden")
	}
	if _, ok := doc.Find(`input[name="afstand"][value="10 KM"]`).Attr("checked"); !ok {
		t.Error("chosen distance not kept")
	}
}
