// Package navigation tracks where the interface layer currently is and lets
// the request client force a return to the sign-in route.
package navigation

import (
	"strings"
	"sync"
)

// SignInRoute is where an expired session is sent.
const SignInRoute = "/signin"

// SignUpRoute is the registration page.
const SignUpRoute = "/signup"

// authRoutes are pages reachable without a session. A forced sign-out while
// on one of these must not navigate again.
var authRoutes = []string{
	SignInRoute,
	SignUpRoute,
	"/forgot-password",
	"/reset-password",
	"/verify-email",
}

// Navigator is the interface layer's location.
type Navigator interface {
	Location() string
	Navigate(route string)
}

// IsAuthRoute reports whether route is one of the unauthenticated pages.
func IsAuthRoute(route string) bool {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	for _, r := range authRoutes {
		if route == r || strings.HasPrefix(route, r+"/") {
			return true
		}
	}
	return false
}

// Memory is a Navigator that records the current route and history.
type Memory struct {
	mu      sync.Mutex
	current string
	history []string
	onMove  func(route string)
}

// NewMemory starts at the given route. onMove, if set, is invoked after each
// navigation.
func NewMemory(start string, onMove func(route string)) *Memory {
	return &Memory{current: start, onMove: onMove}
}

func (m *Memory) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Memory) Navigate(route string) {
	m.mu.Lock()
	m.history = append(m.history, m.current)
	m.current = route
	cb := m.onMove
	m.mu.Unlock()

	if cb != nil {
		cb(route)
	}
}

// History returns the routes left behind, oldest first.
func (m *Memory) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}
