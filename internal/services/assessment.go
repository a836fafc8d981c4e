package services

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/internal/httpclient"
	"github.com/Checker-Finance/maturity-client/pkg/model"
)

const (
	resultRetries = 2
	resultBackoff = 2 * time.Second
)

// ErrNotEnoughAssessments is returned by LatestComparison when fewer than two
// completed assessments exist.
var ErrNotEnoughAssessments = errors.New("at least two completed assessments are needed for a comparison")

// Assessments wraps the /assessment endpoints.
type Assessments struct {
	api    API
	retry  httpclient.RetryPolicy
	logger *zap.Logger
}

func NewAssessments(api API, logger *zap.Logger) *Assessments {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assessments{
		api:    api,
		retry:  httpclient.TimeoutRetry(resultRetries, resultBackoff),
		logger: logger,
	}
}

// List returns one page of assessments. Empty filters are omitted.
func (s *Assessments) List(ctx context.Context, status, cursor string) (model.AssessmentPage, error) {
	return decode[model.AssessmentPage](s.api.Get(ctx, "/assessment/list",
		query("status", httpclient.OptString(status), "cursor", httpclient.OptString(cursor))))
}

// Result fetches a scored assessment. Scoring can be slow, so a timed-out
// fetch is retried twice, two seconds apart.
func (s *Assessments) Result(ctx context.Context, id string) (model.AssessmentResult, error) {
	path := "/assessment/result/" + url.PathEscape(id)
	return decode[model.AssessmentResult](s.retry.Do(ctx, s.logger, "assessment.result",
		func(ctx context.Context) (*httpclient.Response, error) {
			return s.api.Get(ctx, path, nil)
		}))
}

// Compare fetches the server's comparison of two assessments.
func (s *Assessments) Compare(ctx context.Context, first, second string) (model.Comparison, error) {
	return decode[model.Comparison](s.api.Get(ctx, "/assessment/compare",
		query("first", first, "second", second)))
}

// Create starts a new assessment.
func (s *Assessments) Create(ctx context.Context, req model.CreateAssessmentRequest) (model.Assessment, error) {
	return decode[model.Assessment](s.api.Post(ctx, "/assessment", req, nil))
}

// LatestComparison compares the two most recently completed assessments,
// older first.
func (s *Assessments) LatestComparison(ctx context.Context) (model.Comparison, error) {
	page, err := s.List(ctx, model.AssessmentCompleted, "")
	if err != nil {
		return model.Comparison{}, err
	}

	done := make([]model.Assessment, 0, len(page.Items))
	for _, a := range page.Items {
		if a.Status == model.AssessmentCompleted {
			done = append(done, a)
		}
	}
	if len(done) < 2 {
		return model.Comparison{}, ErrNotEnoughAssessments
	}
	sort.SliceStable(done, func(i, j int) bool { return completedAt(done[i]) > completedAt(done[j]) })

	return s.Compare(ctx, done[1].ID, done[0].ID)
}

// completedAt returns a sortable timestamp; the API uses RFC 3339 strings.
func completedAt(a model.Assessment) string {
	if a.CompletedAt != "" {
		return a.CompletedAt
	}
	return a.CreatedAt
}
