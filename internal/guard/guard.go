// Package guard decides whether a view may be entered with the current session.
package guard

import (
	"maji/local-app/internal/model"
	"maji/local-app/internal/nav"
)

// Rule is the access requirement of a view
type Rule int

const (
	// Public views need no session.
	Public Rule = iota
	// Authenticated views need any session.
	Authenticated
	// AdminOnly views need the administrator role.
	AdminOnly
	// UserOnly views turn administrators away.
	UserOnly
)

func (r Rule) String() string {
	switch r {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin_only"
	case UserOnly:
		return "user_only"
	default:
		return "unknown"
	}
}

// SessionReader is the part of the session store guards look at
type SessionReader interface {
	HasSession() bool
	Role() (model.Role, bool)
}

// Decision is the outcome of a guard check. Redirect is set only when
// Proceed is false.
type Decision struct {
	Proceed  bool
	Redirect nav.Route
}

// Check evaluates rule against the stored session. It reads the store on
// every call; nothing is cached between views.
func Check(sessions SessionReader, rule Rule) Decision {
	if rule == Public {
		return Decision{Proceed: true}
	}
	if !sessions.HasSession() {
		return Decision{Redirect: nav.Login}
	}

	role, ok := sessions.Role()
	if !ok {
		// Present but unreadable: no role can be proven
		role = model.RoleUser
	}

	switch {
	case rule == AdminOnly && !role.IsAdmin():
		return Decision{Redirect: nav.UserLanding}
	case rule == UserOnly && role.IsAdmin():
		return Decision{Redirect: nav.AdminLanding}
	}
	return Decision{Proceed: true}
}

// RuleFor returns the rule protecting route
func RuleFor(route nav.Route) Rule {
	switch route {
	case nav.AdminLanding, nav.AdminSurveys, nav.AdminUsers:
		return AdminOnly
	case nav.UserLanding, nav.UserSurveys:
		return UserOnly
	case nav.Catalog:
		return Authenticated
	default:
		return Public
	}
}
