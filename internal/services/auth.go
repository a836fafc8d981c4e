package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/internal/session"
	"github.com/Checker-Finance/maturity-client/pkg/model"
	"github.com/Checker-Finance/maturity-client/pkg/secrets"
)

// CredentialStore is the write side of the session provider.
type CredentialStore interface {
	Save(ctx context.Context, cred session.Credential, remember bool) error
	Clear(ctx context.Context) error
}

// StateSink receives sign-in and sign-out transitions.
type StateSink interface {
	MarkSignedIn(ctx context.Context, user model.User)
	MarkSignedOut(ctx context.Context, reason string)
}

// Auth runs the sign-in, sign-up and sign-out flows.
type Auth struct {
	api    API
	creds  CredentialStore
	state  StateSink
	logger *zap.Logger
}

func NewAuth(api API, creds CredentialStore, state StateSink, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{api: api, creds: creds, state: state, logger: logger}
}

// SignIn exchanges credentials for a token and stores it. With remember the
// credential also survives a restart.
func (a *Auth) SignIn(ctx context.Context, email, password string, remember bool) (model.User, error) {
	payload, err := decode[model.AuthPayload](a.api.Post(ctx, "/auth/signin",
		model.SignInRequest{Email: email, Password: password}, nil))
	if err != nil {
		return model.User{}, err
	}
	return a.establish(ctx, payload, remember)
}

// AccountSource resolves named service accounts.
type AccountSource interface {
	ServiceAccount(ctx context.Context, name string) (secrets.ServiceAccount, error)
}

// SignInWithSecret signs in with a service account kept in a secrets manager.
func (a *Auth) SignInWithSecret(ctx context.Context, src AccountSource, name string, remember bool) (model.User, error) {
	acct, err := src.ServiceAccount(ctx, name)
	if err != nil {
		return model.User{}, err
	}
	return a.SignIn(ctx, acct.Email, acct.Password, remember)
}

// SignUp registers a new account and signs it in.
func (a *Auth) SignUp(ctx context.Context, req model.SignUpRequest, remember bool) (model.User, error) {
	payload, err := decode[model.AuthPayload](a.api.Post(ctx, "/auth/signup", req, nil))
	if err != nil {
		return model.User{}, err
	}
	return a.establish(ctx, payload, remember)
}

func (a *Auth) establish(ctx context.Context, payload model.AuthPayload, remember bool) (model.User, error) {
	if payload.Token == "" {
		return model.User{}, errors.New("sign-in response carried no token")
	}
	if err := a.creds.Save(ctx, session.NewCredential(payload.Token, payload.User), remember); err != nil {
		return model.User{}, err
	}
	a.state.MarkSignedIn(ctx, payload.User)
	a.logger.Info("auth.signed_in",
		zap.String("user_id", payload.User.ID),
		zap.Bool("remember", remember))
	return payload.User, nil
}

// SignOut tells the server, then forgets the credential whatever the server
// said. Only a failure to clear local state is returned.
func (a *Auth) SignOut(ctx context.Context) error {
	if err := discard(a.api.Post(ctx, "/auth/signout", nil, nil)); err != nil {
		a.logger.Warn("auth.signout_call_failed", zap.Error(err))
	}
	err := a.creds.Clear(ctx)
	a.state.MarkSignedOut(ctx, "signed out")
	return err
}

// Me returns the account behind the current token.
func (a *Auth) Me(ctx context.Context) (model.User, error) {
	return decode[model.User](a.api.Get(ctx, "/auth/me", nil))
}
