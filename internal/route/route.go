// Package route decides which view may be shown for the current session.
package route

import (
	"context"
	"sync"

	"github.com/lalith-99/pgdesk/internal/session"
	"go.uber.org/zap"
)

type View string

const (
	Landing   View = "landing"
	Register  View = "register"
	Login     View = "login"
	Buildings View = "buildings"
	Rooms     View = "rooms"
	Tenants   View = "tenants"
)

// Default is where a logged-in user lands.
const Default = Buildings

// Path is the address the view was served at in the web client.
func (v View) Path() string {
	switch v {
	case Landing:
		return "/"
	case Buildings:
		return "/addbuilding"
	case Rooms:
		return "/addroom"
	case Tenants:
		return "/addtenant"
	default:
		return "/" + string(v)
	}
}

func (v View) RequiresAuth() bool {
	switch v {
	case Buildings, Rooms, Tenants:
		return true
	default:
		return false
	}
}

type Decision int

const (
	Render Decision = iota
	RedirectLogin
)

func (d Decision) String() string {
	if d == RedirectLogin {
		return "redirect-login"
	}
	return "render"
}

// Decide is the guard: protected views need an active session.
func Decide(active bool, v View) Decision {
	if v.RequiresAuth() && !active {
		return RedirectLogin
	}
	return Render
}

// Navigator applies the guard against a live Session. It never caches the
// login state; every call asks the Session again.
type Navigator struct {
	session *session.Session
	logger  *zap.Logger

	mu      sync.Mutex
	mounted bool
	current View
}

func NewNavigator(s *session.Session, logger *zap.Logger) *Navigator {
	return &Navigator{session: s, logger: logger}
}

// Mount resolves the first view. The landing view is swapped for the
// default view when a session exists, but only on the first Mount.
func (n *Navigator) Mount(ctx context.Context, initial View) View {
	n.mu.Lock()
	first := !n.mounted
	n.mounted = true
	n.mu.Unlock()

	if first && initial == Landing && n.session.Active(ctx) {
		n.logger.Debug("session found on load, skipping landing")
		n.set(Default)
		return Default
	}

	v, _ := n.Navigate(ctx, initial)
	return v
}

// Navigate moves to v, or to the login view if v is protected and there is
// no active session.
func (n *Navigator) Navigate(ctx context.Context, v View) (View, Decision) {
	d := Decide(n.session.Active(ctx), v)
	if d == RedirectLogin {
		n.logger.Debug("redirecting to login", zap.String("requested", string(v)))
		n.set(Login)
		return Login, d
	}
	n.set(v)
	return v, d
}

// Logout drops the session and shows the login view.
func (n *Navigator) Logout(ctx context.Context) (View, error) {
	if err := n.session.Logout(ctx); err != nil {
		return n.Current(), err
	}
	n.set(Login)
	return Login, nil
}

func (n *Navigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) set(v View) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = v
}

// Link is one entry of the navigation menu. The logout entry also ends
// the session before moving to View.
type Link struct {
	Label  string
	View   View
	Logout bool
}

// Links returns the menu for the given login state.
func Links(active bool) []Link {
	if !active {
		return []Link{
			{Label: "Register", View: Register},
			{Label: "Login", View: Login},
		}
	}
	return []Link{
		{Label: "Add Building", View: Buildings},
		{Label: "Add Room", View: Rooms},
		{Label: "Add Tenant", View: Tenants},
		{Label: "Logout", View: Login, Logout: true},
	}
}
