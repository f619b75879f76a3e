// Package view holds one controller per screen. Controllers check their
// guard on entry, own a lifetime context for their requests and report to
// the user through the notification channel.
package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"maji/local-app/internal/api"
	"maji/local-app/internal/event"
	"maji/local-app/internal/guard"
	"maji/local-app/internal/log"
	"maji/local-app/internal/nav"
	"maji/local-app/internal/notify"
	"maji/local-app/internal/session"
)

// ValidationTitle is the title of every local form validation message.
const ValidationTitle = "Validación"

// ErrNotEntered is returned by actions of a view that was left or never
// entered.
var ErrNotEntered = errors.New("view is not active")

// Deps are the services shared by every view
type Deps struct {
	Sessions      *session.Store
	API           *api.Client
	Notifications *notify.Channel
	Loading       *notify.Indicator
	Navigator     *nav.Navigator
	Events        *event.EventManager
	Logger        *log.Logger
	RedirectDelay time.Duration
	MaxInFlight   int
}

// ValidationError is a local form error. It is shown as is and never reaches
// the backend.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// LoadError is a failed data load, shown next to a retry action.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// base carries the guard rule and lifetime shared by all views.
type base struct {
	deps *Deps
	name string
	rule guard.Rule

	mu     sync.Mutex
	id     string
	ctx    context.Context
	cancel context.CancelFunc
}

func newBase(deps *Deps, name string, rule guard.Rule) base {
	return base{deps: deps, name: name, rule: rule}
}

// Enter evaluates the guard. When it proceeds, the view gets a fresh
// lifetime derived from parent; otherwise the caller should navigate to
// the decision's redirect.
func (b *base) Enter(parent context.Context) guard.Decision {
	decision := guard.Check(b.deps.Sessions, b.rule)
	if !decision.Proceed {
		b.deps.Logger.Info(parent, "View entry redirected", log.Fields{
			"view":     b.name,
			"rule":     b.rule.String(),
			"redirect": decision.Redirect,
		})
		return decision
	}

	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.id = uuid.NewString()
	b.ctx, b.cancel = context.WithCancel(parent)
	b.mu.Unlock()

	b.deps.Logger.Debug(parent, "View entered", log.Fields{"view": b.name, "lifetime": b.id})
	return decision
}

// Leave cancels every request still running for this view.
func (b *base) Leave() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
		b.deps.Logger.Debug(context.Background(), "View left", log.Fields{"view": b.name, "lifetime": b.id})
	}
}

// lifetime returns the context of the current entry.
func (b *base) lifetime() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel == nil || b.ctx.Err() != nil {
		return nil, ErrNotEntered
	}
	return b.ctx, nil
}

// invalid publishes a validation message and returns it as an error.
func (b *base) invalid(message string) error {
	b.deps.Notifications.Error(message, ValidationTitle)
	return &ValidationError{Message: message}
}

// busy marks a request in flight; call the result when it ends.
func (b *base) busy() func() {
	if b.deps.Loading == nil {
		return func() {}
	}
	b.deps.Loading.Set(true)
	return func() { b.deps.Loading.Set(false) }
}

// stale reports whether ctx was canceled by leaving the view, in which case
// results must be dropped.
func stale(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}

// logout clears the session and returns to the login screen.
func logout(deps *Deps) {
	deps.Sessions.Clear()
	deps.Navigator.Navigate(string(nav.Login))
}
