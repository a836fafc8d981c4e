package services

import (
	"context"

	"github.com/Checker-Finance/maturity-client/pkg/model"
)

// Terms fetches the Terms of Service document.
type Terms struct {
	api API
}

func NewTerms(api API) *Terms { return &Terms{api: api} }

// Fetch returns the current terms; Content is an HTML fragment.
func (s *Terms) Fetch(ctx context.Context) (model.Terms, error) {
	return decode[model.Terms](s.api.Get(ctx, "/terms", nil))
}
