// Package nav holds the client route table and the current location.
package nav

import (
	"context"
	"strings"
	"sync"
	"time"

	"maji/local-app/internal/event"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
)

// Route is a client-side location
type Route string

const (
	Entry        Route = "/"
	Login        Route = "/login"
	Register     Route = "/register"
	AdminLanding Route = "/admin"
	AdminSurveys Route = "/admin/encuestas"
	AdminUsers   Route = "/admin/usuarios"
	UserLanding  Route = "/menu"
	UserSurveys  Route = "/menu/encuestas"
	Catalog      Route = "/catalogo"
)

// Routes lists every known route
var Routes = []Route{Entry, Login, Register, AdminLanding, AdminSurveys, AdminUsers, UserLanding, UserSurveys, Catalog}

var known = func() map[Route]bool {
	m := make(map[Route]bool, len(Routes))
	for _, r := range Routes {
		m[r] = true
	}
	return m
}()

// Resolve maps a typed path onto a known route. Matching is exact and case
// sensitive after dropping the query, fragment and trailing slashes. Unknown
// paths resolve to Entry.
func Resolve(path string) Route {
	if r := Route(clean(path)); known[r] {
		return r
	}
	return Entry
}

func clean(path string) string {
	p := strings.TrimSpace(path)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

// Landing returns the landing route for role
func Landing(role model.Role) Route {
	if role.IsAdmin() {
		return AdminLanding
	}
	return UserLanding
}

// Navigator tracks the current route and announces changes.
type Navigator struct {
	mu        sync.Mutex
	current   Route
	listeners []func(Route)
	events    *event.EventManager
	logger    *log.Logger
}

// NewNavigator creates a Navigator positioned at Entry. events may be nil.
func NewNavigator(events *event.EventManager, logger *log.Logger) *Navigator {
	return &Navigator{current: Entry, events: events, logger: logger}
}

// OnChange registers fn to run after every navigation
func (n *Navigator) OnChange(fn func(Route)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Current returns the current route
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate resolves path and moves there.
func (n *Navigator) Navigate(path string) Route {
	route := Resolve(path)

	n.mu.Lock()
	from := n.current
	n.current = route
	listeners := append([]func(Route){}, n.listeners...)
	n.mu.Unlock()

	n.logger.Info(context.Background(), "Navigated", log.Fields{"from": from, "to": route, "requested": path})
	if n.events != nil {
		n.events.Publish(event.Event{Type: event.Navigated, Data: route})
	}
	for _, fn := range listeners {
		fn(route)
	}
	return route
}

// NavigateAfter moves to route once delay has passed, unless ctx is done
// first. It does not block.
func (n *Navigator) NavigateAfter(ctx context.Context, route Route, delay time.Duration) {
	if delay <= 0 {
		n.Navigate(string(route))
		return
	}
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			n.Navigate(string(route))
		case <-ctx.Done():
			n.logger.Debug(ctx, "Delayed navigation canceled", log.Fields{"to": route})
		}
	}()
}
