// Package services exposes the assessment API as typed calls. Each service
// is a thin layer over the request client with fixed endpoints; failures are
// returned raw and classified only when wrapped into a Result.
package services

import (
	"context"

	"github.com/Checker-Finance/maturity-client/internal/apierr"
	"github.com/Checker-Finance/maturity-client/internal/httpclient"
)

// API is the subset of *httpclient.Client the services use.
type API interface {
	Get(ctx context.Context, path string, opts *httpclient.RequestOptions) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body any, opts *httpclient.RequestOptions) (*httpclient.Response, error)
	Put(ctx context.Context, path string, body any, opts *httpclient.RequestOptions) (*httpclient.Response, error)
	Delete(ctx context.Context, path string, opts *httpclient.RequestOptions) (*httpclient.Response, error)
}

// Result is the shape handed to the interface layer.
type Result[T any] struct {
	Success bool
	Data    T
	Error   *apierr.Error
}

// Wrap classifies err, if any, into a Result.
func Wrap[T any](data T, err error) Result[T] {
	if err != nil {
		return Result[T]{Error: apierr.Classify(err)}
	}
	return Result[T]{Success: true, Data: data}
}

// decode turns a client reply into T.
func decode[T any](resp *httpclient.Response, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// discard drops the payload of calls whose reply carries nothing useful.
func discard(_ *httpclient.Response, err error) error {
	return err
}

func query(kv ...any) *httpclient.RequestOptions {
	return &httpclient.RequestOptions{Params: httpclient.ParamsOf(kv...)}
}
