package domain

import "errors"

// Sentinel errors wrapped by services and mapped to HTTP statuses at the
// transport boundary with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrConfig marks a missing required credential.
	ErrConfig = errors.New("missing configuration")

	// Upstream provider failures, kept distinct so the cover pipeline can
	// surface 401/503/504 separately from a generic upstream error.
	ErrUpstreamAuth        = errors.New("upstream unauthorized")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstream            = errors.New("upstream error")
)
