package collector

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a source failure for containment policy: network
// errors retry then degrade, blocked sources abort the platform's fetch for
// the session, parse errors skip the single malformed item.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindBlocked ErrorKind = "blocked"
	KindParse   ErrorKind = "parse"
)

// SourceError is a typed adapter failure. It never propagates past the
// collector boundary; the collector logs it and degrades to empty or
// synthetic results.
type SourceError struct {
	Kind     ErrorKind
	Platform string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Platform, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func networkError(platform string, err error) *SourceError {
	return &SourceError{Kind: KindNetwork, Platform: platform, Err: err}
}

func blockedError(platform string, err error) *SourceError {
	return &SourceError{Kind: KindBlocked, Platform: platform, Err: err}
}

func parseError(platform string, err error) *SourceError {
	return &SourceError{Kind: KindParse, Platform: platform, Err: err}
}

// IsBlocked reports whether err signals an anti-automation wall.
func IsBlocked(err error) bool {
	var srcErr *SourceError
	return errors.As(err, &srcErr) && srcErr.Kind == KindBlocked
}

// isRetryable reports whether err is worth another attempt within the same
// session. Blocked sources are not.
func isRetryable(err error) bool {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Kind == KindNetwork
	}
	return true
}
