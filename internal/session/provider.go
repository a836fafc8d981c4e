package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/pkg/utils"
)

// Provider is the single source of truth for the stored credential. Reads
// try the session scope first, then the persistent scope.
type Provider struct {
	logger     *zap.Logger
	session    Store
	persistent Store
	now        func() time.Time
}

// NewProvider wires the two scopes together.
func NewProvider(logger *zap.Logger, sessionScope, persistentScope Store) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		logger:     logger,
		session:    sessionScope,
		persistent: persistentScope,
		now:        time.Now,
	}
}

// Current returns the active credential, or nil when signed out. Expired
// credentials are skipped.
func (p *Provider) Current(ctx context.Context) (*Credential, error) {
	var errs []error
	for _, scope := range []struct {
		name  string
		store Store
	}{
		{"session", p.session},
		{"persistent", p.persistent},
	} {
		if scope.store == nil {
			continue
		}
		cred, err := scope.store.Load(ctx)
		if err != nil {
			p.logger.Warn("session.load_failed", zap.String("scope", scope.name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if cred == nil || cred.Token == "" {
			continue
		}
		if cred.Expired(p.now()) {
			p.logger.Debug("session.expired", zap.String("scope", scope.name))
			continue
		}
		return cred, nil
	}
	return nil, errors.Join(errs...)
}

// Token returns the bearer token of the current credential, or "".
func (p *Provider) Token(ctx context.Context) (string, error) {
	cred, err := p.Current(ctx)
	if cred == nil {
		return "", err
	}
	return cred.Token, nil
}

// Save stores cred in the session scope and, when remember is set, in the
// persistent scope. Without remember any older persistent credential is
// removed so it cannot resurface after a restart.
func (p *Provider) Save(ctx context.Context, cred Credential, remember bool) error {
	if p.session != nil {
		if err := p.session.Save(ctx, &cred); err != nil {
			return err
		}
	}
	if p.persistent != nil {
		var err error
		if remember {
			err = p.persistent.Save(ctx, &cred)
		} else {
			err = p.persistent.Delete(ctx)
		}
		if err != nil {
			return err
		}
	}

	p.logger.Info("session.saved",
		zap.String("user_id", cred.User.ID),
		zap.String("token", utils.MaskToken(cred.Token)),
		zap.Bool("remember", remember),
		zap.Time("expires_at", cred.ExpiresAt))
	return nil
}

// Clear deletes the credential from both scopes. Both deletes are attempted
// even if the first fails.
func (p *Provider) Clear(ctx context.Context) error {
	var errs []error
	if p.session != nil {
		errs = append(errs, p.session.Delete(ctx))
	}
	if p.persistent != nil {
		errs = append(errs, p.persistent.Delete(ctx))
	}
	err := errors.Join(errs...)
	if err != nil {
		p.logger.Warn("session.clear_failed", zap.Error(err))
	} else {
		p.logger.Debug("session.cleared")
	}
	return err
}
