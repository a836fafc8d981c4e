package services

import (
	"context"
	"errors"
	"io"
	"net/url"

	"github.com/Checker-Finance/maturity-client/internal/httpclient"
	"github.com/Checker-Finance/maturity-client/pkg/model"
)

// UseCases wraps the use-case library.
type UseCases struct {
	api API
}

func NewUseCases(api API) *UseCases { return &UseCases{api: api} }

func (s *UseCases) List(ctx context.Context, category, cursor string) (model.UseCasePage, error) {
	return decode[model.UseCasePage](s.api.Get(ctx, "/usecase",
		query("category", httpclient.OptString(category), "cursor", httpclient.OptString(cursor))))
}

func (s *UseCases) Get(ctx context.Context, id string) (model.UseCase, error) {
	return decode[model.UseCase](s.api.Get(ctx, usecasePath(id), nil))
}

func (s *UseCases) Create(ctx context.Context, uc model.UseCase) (model.UseCase, error) {
	return decode[model.UseCase](s.api.Post(ctx, "/usecase", uc, nil))
}

func (s *UseCases) Update(ctx context.Context, uc model.UseCase) (model.UseCase, error) {
	if uc.ID == "" {
		return model.UseCase{}, errors.New("use case id is required for update")
	}
	return decode[model.UseCase](s.api.Put(ctx, usecasePath(uc.ID), uc, nil))
}

func (s *UseCases) Delete(ctx context.Context, id string) error {
	return discard(s.api.Delete(ctx, usecasePath(id), nil))
}

// Import uploads a CSV or JSON file of use cases as form data.
func (s *UseCases) Import(ctx context.Context, filename string, content io.Reader) (model.ImportSummary, error) {
	body := &httpclient.Multipart{
		Files: []httpclient.File{{Field: "file", Filename: filename, Content: content}},
	}
	return decode[model.ImportSummary](s.api.Post(ctx, "/usecase/import", body, nil))
}

func usecasePath(id string) string {
	return "/usecase/" + url.PathEscape(id)
}
