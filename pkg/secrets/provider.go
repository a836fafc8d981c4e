package secrets

import (
	"context"
	"fmt"
)

// Provider defines a generic secrets manager interface.
// Concrete implementations (AWS, GCP, etc.) can satisfy this.
type Provider interface {
	// GetSecret retrieves a secret by key/path and returns a key-value map.
	GetSecret(ctx context.Context, key string) (map[string]string, error)
}

// ServiceAccount is a sign-in identity stored in a secrets manager for
// non-interactive use (CI jobs, scheduled exports).
type ServiceAccount struct {
	Email    string
	Password string
}

// LoadServiceAccount reads an {"email": ..., "password": ...} secret.
func LoadServiceAccount(ctx context.Context, p Provider, name string) (ServiceAccount, error) {
	values, err := p.GetSecret(ctx, name)
	if err != nil {
		return ServiceAccount{}, err
	}
	acct := ServiceAccount{
		Email:    values["email"],
		Password: values["password"],
	}
	if acct.Email == "" || acct.Password == "" {
		return ServiceAccount{}, fmt.Errorf("secret [%s] is missing email or password", name)
	}
	return acct, nil
}
