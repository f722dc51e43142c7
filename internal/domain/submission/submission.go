// Package submission holds the state shared by the contact and registration
// forms: the submit lifecycle, the in-flight guard and field errors.
package submission

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Status is the lifecycle of one form submission.
type Status int

const (
	Idle Status = iota
	Submitting
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrInFlight is returned when a submit starts while another is running.
var ErrInFlight = errors.New("submission already in flight")

// Flow tracks one form's submit lifecycle. The zero value is Idle.
type Flow struct {
	status Status
	err    string
}

// Status returns the current state.
func (f *Flow) Status() Status { return f.status }

// Message returns the user-facing error of a failed submit.
func (f *Flow) Message() string { return f.err }

// Begin moves to Submitting. A form that is already submitting stays as it is.
// PRE: none
// POST: Returns ErrInFlight while Submitting; otherwise status is Submitting
func (f *Flow) Begin() error {
	if f.status == Submitting {
		return ErrInFlight
	}
	f.status = Submitting
	f.err = ""
	return nil
}

// Succeed ends the submit successfully.
func (f *Flow) Succeed() {
	f.status = Succeeded
	f.err = ""
}

// Fail ends the submit with a message for the user.
func (f *Flow) Fail(message string) {
	f.status = Failed
	f.err = message
}

// Reset returns the form to Idle, e.g. when its dialog is closed.
func (f *Flow) Reset() {
	f.status = Idle
	f.err = ""
}

// Guard keys in-flight submissions so a duplicate submit does nothing.
// The zero value is ready to use and safe for concurrent use.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Acquire claims key. When ok is false another submit with the same key is
// running and the caller must not proceed. release must be called once.
func (g *Guard) Acquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight == nil {
		g.inFlight = make(map[string]struct{})
	}
	if _, busy := g.inFlight[key]; busy {
		return func() {}, false
	}
	g.inFlight[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, true
}

// Key builds a guard key from a form name and an email address.
func Key(form, email string) string {
	return form + ":" + strings.ToLower(strings.TrimSpace(email))
}

// FieldErrors maps a form field to its Dutch error message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has an error.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Error lists the failing fields in a stable order.
func (fe FieldErrors) Error() string {
	return "invalid fields: " + strings.Join(slices.Sorted(maps.Keys(fe)), ", ")
}

// Err returns fe as an error, or nil when empty.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Result is the outcome of a submit as shown to the visitor.
type Result struct {
	ID string `json:"id,omitempty"`
	// Dropped is set when the honeypot caught a bot. The visitor sees success.
	Dropped   bool   `json:"-"`
	EmailSent bool   `json:"emailSent"`
	Message   string `json:"message"`
}
