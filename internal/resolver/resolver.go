package resolver

import (
	"errors"
	"regexp"
)

// ErrInvalidIdentifier is returned when the input is neither a recognized
// Google Slides URL nor a plausible bare presentation ID.
var ErrInvalidIdentifier = errors.New("invalid presentation URL or ID")

var (
	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/presentation/d/([a-zA-Z0-9-_]+)`),
		regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`),
		regexp.MustCompile(`id=([a-zA-Z0-9-_]+)`),
	}
	bareID = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
)

// Resolve extracts the canonical presentation ID from a free-form input.
// Full editor URLs yield the /d/<id> segment; bare IDs pass through
// unchanged. Resolve performs no network access.
func Resolve(raw string) (string, error) {
	for _, p := range urlPatterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return m[1], nil
		}
	}
	if bareID.MatchString(raw) {
		return raw, nil
	}
	return "", ErrInvalidIdentifier
}
