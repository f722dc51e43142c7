// Package content holds the shape checks shared by the published content
// tables (partners, sponsors, videos, program, cards, embeds, photos).
package content

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ErrInvalidRow marks a stored row whose shape cannot be shown.
var ErrInvalidRow = errors.New("invalid content row")

// Text returns the value of a nullable column, or "" for NULL.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Invalid builds an ErrInvalidRow error naming the offending field.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidRow, field, reason)
}

// RequireText fails when v is blank.
func RequireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return Invalid(field, "is empty")
	}
	return nil
}

// CheckURL accepts absolute http(s) URLs and site-relative paths.
// An empty value is accepted unless required is set.
func CheckURL(field, raw string, required bool) error {
	if raw == "" {
		if required {
			return Invalid(field, "is empty")
		}
		return nil
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Invalid(field, "is not a valid url")
	}
	return nil
}

// CheckOrder rejects negative sort keys.
func CheckOrder(field string, n int) error {
	if n < 0 {
		return Invalid(field, "is negative")
	}
	return nil
}

// Keep returns the items for which keep reports true, preserving order.
func Keep[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// SortByKey sorts items ascending by key. Equal keys keep their input order.
func SortByKey[T any](items []T, key func(T) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
}
