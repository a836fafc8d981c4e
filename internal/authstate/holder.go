// Package authstate holds whether the user is signed in. The request client
// reports rejected sessions to it through httpclient.AuthFailureHandler, so
// neither package imports the other's concrete types.
package authstate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/internal/apierr"
	"github.com/Checker-Finance/maturity-client/internal/events"
	"github.com/Checker-Finance/maturity-client/internal/session"
	"github.com/Checker-Finance/maturity-client/pkg/model"
)

// Status is the authentication state.
type Status int

const (
	SignedOut Status = iota
	SignedIn
)

func (s Status) String() string {
	if s == SignedIn {
		return "signed_in"
	}
	return "signed_out"
}

// CredentialReader is the read side of the session provider.
type CredentialReader interface {
	Current(ctx context.Context) (*session.Credential, error)
}

// Listener observes state transitions.
type Listener func(status Status, user model.User)

// Holder is the authentication-state holder.
type Holder struct {
	logger    *zap.Logger
	creds     CredentialReader
	publisher events.Publisher

	mu        sync.RWMutex
	status    Status
	user      model.User
	listeners []Listener
}

// New creates a signed-out holder.
func New(logger *zap.Logger, creds CredentialReader, pub events.Publisher) *Holder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Holder{logger: logger, creds: creds, publisher: pub}
}

// Subscribe registers a listener for future transitions.
func (h *Holder) Subscribe(l Listener) {
	h.mu.Lock()
	h.listeners = append(h.listeners, l)
	h.mu.Unlock()
}

// Status returns the current state.
func (h *Holder) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// User returns the signed-in user, if any.
func (h *Holder) User() (model.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user, h.status == SignedIn
}

// Restore adopts a credential left by an earlier process. It does not
// publish: the session already existed.
func (h *Holder) Restore(ctx context.Context) (bool, error) {
	if h.creds == nil {
		return false, nil
	}
	cred, err := h.creds.Current(ctx)
	if err != nil || cred == nil {
		return false, err
	}
	h.transition(SignedIn, cred.User)
	return true, nil
}

// MarkSignedIn records a successful sign-in or sign-up.
func (h *Holder) MarkSignedIn(ctx context.Context, user model.User) {
	if h.transition(SignedIn, user) {
		h.publish(ctx, model.NewSessionEvent(model.SessionSignedIn, user.ID, ""))
	}
}

// MarkSignedOut records an explicit sign-out.
func (h *Holder) MarkSignedOut(ctx context.Context, reason string) {
	prev, _ := h.User()
	if h.transition(SignedOut, model.User{}) {
		h.publish(ctx, model.NewSessionEvent(model.SessionSignedOut, prev.ID, reason))
	}
}

// OnAuthFailure implements httpclient.AuthFailureHandler. Repeated failures
// while already signed out are ignored.
func (h *Holder) OnAuthFailure(ctx context.Context, err *apierr.Error) {
	prev, _ := h.User()
	if !h.transition(SignedOut, model.User{}) {
		return
	}
	reason := ""
	if err != nil {
		reason = err.Message
	}
	h.logger.Info("auth.session_rejected",
		zap.String("user_id", prev.ID),
		zap.String("reason", reason))
	h.publish(ctx, model.NewSessionEvent(model.SessionExpired, prev.ID, reason))
}

// transition applies a state change and reports whether anything changed.
// Signing in as a different user counts as a change.
func (h *Holder) transition(to Status, user model.User) bool {
	h.mu.Lock()
	if h.status == to && h.user.ID == user.ID {
		h.mu.Unlock()
		return false
	}
	h.status = to
	h.user = user
	listeners := append([]Listener(nil), h.listeners...)
	h.mu.Unlock()

	for _, l := range listeners {
		l(to, user)
	}
	return true
}

func (h *Holder) publish(ctx context.Context, evt model.SessionEvent) {
	if err := h.publisher.Publish(ctx, evt); err != nil {
		h.logger.Warn("auth.event_publish_failed",
			zap.String("type", evt.Type),
			zap.Error(err))
	}
}
