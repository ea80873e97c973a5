package domain

import "errors"

var (
	// ErrBannerNotDismissible is returned when dismissing an expired-trial banner.
	ErrBannerNotDismissible = errors.New("trial banner cannot be dismissed")

	// ErrSessionRequired is returned when a dismissal has no session id.
	ErrSessionRequired = errors.New("session id is required")
)
