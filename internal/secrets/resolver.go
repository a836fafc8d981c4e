package secrets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	pkgsecrets "github.com/Checker-Finance/maturity-client/pkg/secrets"
)

// Resolver looks up service-account sign-in credentials in the secrets
// manager and caches them locally to reduce API calls.
//
// Secret naming convention: {env}/maturity/{name}. A name that already
// contains a slash is used as the full secret name.
type Resolver struct {
	logger   *zap.Logger
	env      string
	provider pkgsecrets.Provider
	cache    *pkgsecrets.Cache[pkgsecrets.ServiceAccount]
}

// NewResolver constructs a resolver whose cache entries live for ttl.
func NewResolver(logger *zap.Logger, env string, provider pkgsecrets.Provider, ttl time.Duration) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		logger:   logger,
		env:      env,
		provider: provider,
		cache:    pkgsecrets.NewCache[pkgsecrets.ServiceAccount](ttl),
	}
}

// SecretName builds the secrets-manager key for a service account.
func (r *Resolver) SecretName(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return strings.ToLower(fmt.Sprintf("%s/maturity/%s", r.env, name))
}

// ServiceAccount fetches or returns the cached account for name.
func (r *Resolver) ServiceAccount(ctx context.Context, name string) (pkgsecrets.ServiceAccount, error) {
	secretName := r.SecretName(name)

	// --- check in-memory cache first ---
	if acct, ok := r.cache.Get(secretName); ok {
		return acct, nil
	}

	// --- fetch from the secrets manager ---
	acct, err := pkgsecrets.LoadServiceAccount(ctx, r.provider, secretName)
	if err != nil {
		r.logger.Warn("secrets.service_account_failed",
			zap.String("key", secretName),
			zap.Error(err))
		return pkgsecrets.ServiceAccount{}, fmt.Errorf("resolve service account %q: %w", name, err)
	}

	r.cache.Put(secretName, acct)
	r.logger.Info("secrets.service_account_resolved",
		zap.String("key", secretName),
		zap.String("email", acct.Email))
	return acct, nil
}

// Forget drops a cached account, e.g. after the server rejected it.
func (r *Resolver) Forget(name string) {
	r.cache.Bust(r.SecretName(name))
}
