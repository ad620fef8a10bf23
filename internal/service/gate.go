package service

import "github.com/acourtin/thefeed/internal/models"

// Action is a request intent checked against the authorization gate.
type Action int

const (
	ActionReadFeed Action = iota
	ActionCreatePublication
	ActionVisitAuthPage
)

// Decision tells the boundary layer how to proceed.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// Deny rejects the request with an authorization error.
	Deny
	// RedirectToFeed short-circuits to the feed page. Not an error.
	RedirectToFeed
)

// AuthorizationGate decides what an anonymous or authenticated identity
// may do. Pure decision table, no request context involved: the feed is
// readable by everyone, publishing requires authentication, and the
// registration/login pages bounce already-authenticated users back to
// the feed.
func AuthorizationGate(identity *models.Identity, action Action) Decision {
	authenticated := identity != nil
	switch action {
	case ActionReadFeed:
		return Allow
	case ActionCreatePublication:
		if authenticated {
			return Allow
		}
		return Deny
	case ActionVisitAuthPage:
		if authenticated {
			return RedirectToFeed
		}
		return Allow
	}
	return Deny
}
