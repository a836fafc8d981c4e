package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthRoute(t *testing.T) {
	tests := map[string]bool{
		"/signin":                  true,
		"/signin?next=/dashboard":  true,
		"/signup":                  true,
		"/reset-password/tok123":   true,
		"/verify-email":            true,
		"/dashboard":               false,
		"/settings/billing":        false,
		"/signing-authority":       false,
		"":                         false,
	}
	for route, want := range tests {
		assert.Equal(t, want, IsAuthRoute(route), route)
	}
}

func TestMemory_Navigate(t *testing.T) {
	var moved []string
	nav := NewMemory("/dashboard", func(route string) { moved = append(moved, route) })

	assert.Equal(t, "/dashboard", nav.Location())

	nav.Navigate("/compare")
	nav.Navigate(SignInRoute)

	assert.Equal(t, SignInRoute, nav.Location())
	assert.Equal(t, []string{"/dashboard", "/compare"}, nav.History())
	assert.Equal(t, []string{"/compare", SignInRoute}, moved)
}
