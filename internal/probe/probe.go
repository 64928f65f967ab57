// Package probe performs one classified access check against the Slides API:
// a bounded, retried fetch of a presentation whose result is always one of a
// fixed set of outcomes. No raw transport error escapes this package.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/slides/v1"
)

type Status int

const (
	StatusGranted Status = iota
	StatusNotFound
	StatusForbidden
	StatusRateLimited
	StatusTransient
	StatusFatal
)

// Outcome is the classified result of a probe. Exactly one status is set per
// probe; Presentation is non-nil only for StatusGranted, Err only for the
// error statuses that carry a cause.
type Outcome struct {
	Status       Status
	Presentation *slides.Presentation
	Err          error
	Attempts     int
}

func (o Outcome) Granted() bool { return o.Status == StatusGranted }

// Message maps the outcome to the single human-readable line shown to the
// user. StatusFatal advises re-authentication because it covers credential
// problems.
func (o Outcome) Message() string {
	switch o.Status {
	case StatusGranted:
		return "Access granted"
	case StatusNotFound:
		return "Presentation not found (404): the ID may be wrong or the presentation was deleted"
	case StatusForbidden:
		return "Access denied (403): the presentation is private or not shared with your account"
	case StatusRateLimited:
		return fmt.Sprintf("Rate limited (429) after %d attempts: try again later", o.Attempts)
	case StatusTransient:
		return fmt.Sprintf("Network error after %d attempts: %v", o.Attempts, o.Err)
	case StatusFatal:
		return fmt.Sprintf("Request failed: %v (re-run authentication if this persists)", o.Err)
	default:
		return "Unknown outcome"
	}
}

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// Prober fetches presentations through a Slides service already bound to a
// credential. It never mutates credential state.
type Prober struct {
	svc         *slides.Service
	maxAttempts int
	baseDelay   time.Duration
}

func New(svc *slides.Service, maxAttempts int, baseDelay time.Duration) *Prober {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	return &Prober{svc: svc, maxAttempts: maxAttempts, baseDelay: baseDelay}
}

// Probe issues the fetch with bounded retry. Rate-limit (429) and transient
// transport/5xx errors are retried with exponential backoff; 401 fails
// immediately so the caller can force re-authentication; 403/404 and other
// client errors fail fast with classification.
func (p *Prober) Probe(ctx context.Context, presentationID string) Outcome {
	var lastErr error
	var rateLimited bool
	delay := p.baseDelay

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Outcome{Status: StatusTransient, Err: ctx.Err(), Attempts: attempt - 1}
			}
			delay *= 2
		}

		pres, err := p.svc.Presentations.Get(presentationID).Context(ctx).Do()
		if err == nil {
			return Outcome{Status: StatusGranted, Presentation: pres, Attempts: attempt}
		}

		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			switch {
			case gerr.Code == http.StatusUnauthorized:
				return Outcome{Status: StatusFatal, Err: err, Attempts: attempt}
			case gerr.Code == http.StatusForbidden:
				return Outcome{Status: StatusForbidden, Err: err, Attempts: attempt}
			case gerr.Code == http.StatusNotFound:
				return Outcome{Status: StatusNotFound, Err: err, Attempts: attempt}
			case gerr.Code == http.StatusTooManyRequests:
				rateLimited = true
				lastErr = err
				continue
			case gerr.Code >= 500:
				rateLimited = false
				lastErr = err
				continue
			default:
				return Outcome{Status: StatusFatal, Err: err, Attempts: attempt}
			}
		}

		// Transport-level failure without an HTTP status.
		rateLimited = false
		lastErr = err
	}

	if rateLimited {
		return Outcome{Status: StatusRateLimited, Err: lastErr, Attempts: p.maxAttempts}
	}
	return Outcome{Status: StatusTransient, Err: lastErr, Attempts: p.maxAttempts}
}
