// Package steps models the live step counter: per-participant totals, the
// leaderboard and the frames exchanged over the push channel.
package steps

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"
)

// Push channel names.
const (
	ChannelTotal       = "total_updates"
	ChannelStep        = "step_updates"
	ChannelLeaderboard = "leaderboard_updates"
)

// Channels lists every channel a client may subscribe to.
var Channels = []string{ChannelTotal, ChannelStep, ChannelLeaderboard}

// Frame types.
const (
	TypeWelcome           = "welcome"
	TypeSubscribe         = "subscribe"
	TypeUnsubscribe       = "unsubscribe"
	TypePing              = "ping"
	TypePong              = "pong"
	TypeTotalUpdate       = "total_update"
	TypeStepUpdate        = "step_update"
	TypeLeaderboardUpdate = "leaderboard_update"
	TypeError             = "error"
)

// LeaderboardSize is the number of entries published and served.
const LeaderboardSize = 10

// MaxDelta bounds one increment to catch typos from the ingest side.
const MaxDelta = 100_000

var (
	ErrEmptyParticipant = errors.New("participant is required")
	ErrInvalidDelta     = errors.New("delta must be between 1 and 100000")
	ErrUnknownChannel   = errors.New("unknown channel")
)

// Frame is one JSON message on the push channel. Only the fields relevant to
// Type are set.
type Frame struct {
	Type              string   `json:"type"`
	Message           string   `json:"message,omitempty"`
	AvailableChannels []string `json:"available_channels,omitempty"`
	Channels          []string `json:"channels,omitempty"`
	TotalSteps        *int64   `json:"total_steps,omitempty"`
	Naam              string   `json:"naam,omitempty"`
	Delta             int64    `json:"delta,omitempty"`
	Steps             int64    `json:"steps,omitempty"`
	TopN              []Entry  `json:"top_n,omitempty"`
	Timestamp         string   `json:"timestamp,omitempty"`
}

// TotalFrame builds a total_update frame.
func TotalFrame(total int64, at time.Time) Frame {
	return Frame{Type: TypeTotalUpdate, TotalSteps: &total, Timestamp: at.UTC().Format(time.RFC3339)}
}

// Participant is one walker's running total.
type Participant struct {
	Naam      string
	Steps     int64
	UpdatedAt time.Time
}

// Entry is one leaderboard line.
type Entry struct {
	Rank  int    `json:"rank"`
	Naam  string `json:"naam"`
	Steps int64  `json:"steps"`
}

// Increment is a validated step delta for one participant.
type Increment struct {
	Participant string `json:"participant"`
	Delta       int64  `json:"delta"`
}

// Validate checks the increment and trims the participant name.
// PRE: none
// POST: Returns nil and a normalised increment when usable
func (in *Increment) Validate() error {
	in.Participant = strings.TrimSpace(in.Participant)
	if in.Participant == "" {
		return ErrEmptyParticipant
	}
	if in.Delta < 1 || in.Delta > MaxDelta {
		return ErrInvalidDelta
	}
	return nil
}

// Leaderboard ranks participants by steps, highest first, ties by name, and
// returns at most n entries.
func Leaderboard(ps []Participant, n int) []Entry {
	sorted := slices.Clone(ps)
	slices.SortFunc(sorted, func(a, b Participant) int {
		if c := cmp.Compare(b.Steps, a.Steps); c != 0 {
			return c
		}
		return cmp.Compare(a.Naam, b.Naam)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]Entry, len(sorted))
	for i, p := range sorted {
		out[i] = Entry{Rank: i + 1, Naam: p.Naam, Steps: p.Steps}
	}
	return out
}

// ValidChannel reports whether name is a known channel.
func ValidChannel(name string) bool {
	return slices.Contains(Channels, name)
}
