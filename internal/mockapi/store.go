// Package mockapi is an in-memory stand-in for the assessment API, used for
// local development and end-to-end checks of the client.
package mockapi

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Checker-Finance/maturity-client/pkg/model"
)

// Demo account seeded into every store.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo1234"
)

const pageSize = 20

type account struct {
	user     model.User
	password string
}

// Store holds all mock state behind one mutex.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]account // by email
	tokens       map[string]string  // token -> user id
	assessments  []model.Assessment
	results      map[string]model.AssessmentResult
	members      []model.TeamMember
	roles        []model.Role
	plans        []model.Plan
	subscription model.Subscription
	usecases     map[string]model.UseCase
	terms        model.Terms
	now          func() time.Time
}

// NewStore returns a store seeded with the demo organisation.
func NewStore() *Store {
	s := &Store{
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		results:  make(map[string]model.AssessmentResult),
		usecases: make(map[string]model.UseCase),
		now:      time.Now,
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	demo := model.User{ID: "user-demo", Email: DemoEmail, Name: "Demo User", Role: "admin", OrgID: "org-demo"}
	s.accounts[DemoEmail] = account{user: demo, password: DemoPassword}

	s.assessments = []model.Assessment{
		{ID: "asm-1", Title: "Baseline", Status: model.AssessmentCompleted, Score: 41, CreatedAt: "2026-01-05T09:00:00Z", CompletedAt: "2026-01-12T17:00:00Z"},
		{ID: "asm-2", Title: "Mid-year review", Status: model.AssessmentCompleted, Score: 56, CreatedAt: "2026-05-02T09:00:00Z", CompletedAt: "2026-05-09T16:30:00Z"},
		{ID: "asm-3", Title: "Q4 planning", Status: model.AssessmentInProgress, CreatedAt: "2026-09-20T10:00:00Z"},
	}
	s.results["asm-1"] = model.AssessmentResult{
		ID: "asm-1", Title: "Baseline", OverallScore: 41, Level: "Exploring",
		Dimensions: []model.DimensionScore{
			{Name: "strategy", Score: 45}, {Name: "data", Score: 38}, {Name: "talent", Score: 40},
		},
		Recommendations: []string{"Appoint an executive sponsor for AI initiatives."},
	}
	s.results["asm-2"] = model.AssessmentResult{
		ID: "asm-2", Title: "Mid-year review", OverallScore: 56, Level: "Developing",
		Dimensions: []model.DimensionScore{
			{Name: "strategy", Score: 60}, {Name: "data", Score: 52}, {Name: "governance", Score: 55},
		},
		Recommendations: []string{"Formalise a model risk review."},
	}

	s.members = []model.TeamMember{
		{ID: demo.ID, Email: demo.Email, Name: demo.Name, Role: "admin", Status: "active", JoinedAt: "2025-11-01T00:00:00Z"},
	}
	s.roles = []model.Role{
		{ID: "admin", Name: "Administrator", Permissions: []string{"assessment:write", "billing:write", "team:write"}},
		{ID: "editor", Name: "Editor", Permissions: []string{"assessment:write"}},
		{ID: "viewer", Name: "Viewer"},
	}
	s.plans = []model.Plan{
		{ID: "starter", Name: "Starter", Price: decimal.Zero, Currency: "USD", Interval: "month"},
		{ID: "pro", Name: "Pro", Price: decimal.RequireFromString("49.90"), Currency: "USD", Interval: "month", Features: []string{"comparisons", "team"}},
		{ID: "enterprise", Name: "Enterprise", Price: decimal.RequireFromString("499.00"), Currency: "USD", Interval: "month"},
	}
	s.subscription = model.Subscription{PlanID: "starter", Status: "active", Amount: decimal.Zero, Currency: "USD"}
	s.usecases["uc-1"] = model.UseCase{ID: "uc-1", Title: "Support chatbot", Category: "customer_service", Impact: "high", Effort: "medium"}
	s.usecases["uc-2"] = model.UseCase{ID: "uc-2", Title: "Invoice extraction", Category: "finance", Impact: "medium", Effort: "low"}
	s.terms = model.Terms{Version: "2026-01", Content: "<h1>Terms of Service</h1><p>Use responsibly.</p>", UpdatedAt: "2026-01-01"}
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// SignIn checks a password and issues a fresh token.
func (s *Store) SignIn(email, password string) (model.AuthPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok || acct.password != password {
		return model.AuthPayload{}, false
	}
	token := uuid.NewString()
	s.tokens[token] = acct.user.ID
	return model.AuthPayload{Token: token, User: acct.user}, true
}

// SignUp creates an account; false when the email is taken.
func (s *Store) SignUp(req model.SignUpRequest) (model.AuthPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[req.Email]; taken {
		return model.AuthPayload{}, false
	}
	user := model.User{ID: "user-" + uuid.NewString()[:8], Email: req.Email, Name: req.Name, Role: "admin", OrgID: "org-" + uuid.NewString()[:8]}
	s.accounts[req.Email] = account{user: user, password: req.Password}
	token := uuid.NewString()
	s.tokens[token] = user.ID
	return model.AuthPayload{Token: token, User: user}, true
}

// Revoke invalidates a token.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// UserByToken resolves a bearer token.
func (s *Store) UserByToken(token string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return model.User{}, false
	}
	for _, acct := range s.accounts {
		if acct.user.ID == id {
			return acct.user, true
		}
	}
	return model.User{}, false
}

// Assessments returns one page filtered by status. The cursor is an offset.
func (s *Store) Assessments(status, cursor string) model.AssessmentPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []model.Assessment
	for _, a := range s.assessments {
		if status == "" || a.Status == status {
			items = append(items, a)
		}
	}
	return paginate(items, cursor, func(items []model.Assessment, next string) model.AssessmentPage {
		return model.AssessmentPage{Items: items, NextCursor: next}
	})
}

func (s *Store) Result(id string) (model.AssessmentResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	return r, ok
}

func (s *Store) CreateAssessment(req model.CreateAssessmentRequest) model.Assessment {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := model.Assessment{ID: "asm-" + uuid.NewString()[:8], Title: req.Title, Status: model.AssessmentDraft, CreatedAt: s.stamp()}
	s.assessments = append(s.assessments, a)
	return a
}

func (s *Store) Plans() []model.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Plan(nil), s.plans...)
}

func (s *Store) Plan(id string) (model.Plan, bool) {
	for _, p := range s.Plans() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Plan{}, false
}

func (s *Store) Subscription() model.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscription
}

func (s *Store) Subscribe(p model.Plan) {
	s.mu.Lock()
	s.subscription = model.Subscription{PlanID: p.ID, Status: "active", Amount: p.Price, Currency: p.Currency}
	s.mu.Unlock()
}

func (s *Store) CancelSubscription() model.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscription.CancelAtEnd = true
	return s.subscription
}

func (s *Store) Members() []model.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TeamMember(nil), s.members...)
}

func (s *Store) Invite(req model.InviteRequest) model.TeamMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := model.TeamMember{ID: "member-" + uuid.NewString()[:8], Email: req.Email, Role: req.Role, Status: "invited"}
	s.members = append(s.members, m)
	return m
}

func (s *Store) RemoveMember(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.members {
		if m.ID == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Roles() []model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Role(nil), s.roles...)
}

// AssignRole sets a member's role; false when either is unknown.
func (s *Store) AssignRole(memberID, role string) (model.TeamMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	known := false
	for _, r := range s.roles {
		if r.ID == role {
			known = true
			break
		}
	}
	if !known {
		return model.TeamMember{}, false
	}
	for i := range s.members {
		if s.members[i].ID == memberID {
			s.members[i].Role = role
			return s.members[i], true
		}
	}
	return model.TeamMember{}, false
}

func (s *Store) UseCases(category, cursor string) model.UseCasePage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]model.UseCase, 0, len(s.usecases))
	for _, uc := range s.usecases {
		if category == "" || uc.Category == category {
			items = append(items, uc)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return paginate(items, cursor, func(items []model.UseCase, next string) model.UseCasePage {
		return model.UseCasePage{Items: items, NextCursor: next}
	})
}

func (s *Store) UseCase(id string) (model.UseCase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uc, ok := s.usecases[id]
	return uc, ok
}

// PutUseCase inserts or replaces a use case, assigning an ID when missing.
func (s *Store) PutUseCase(uc model.UseCase) model.UseCase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uc.ID == "" {
		uc.ID = "uc-" + uuid.NewString()[:8]
	}
	uc.UpdatedAt = s.stamp()
	s.usecases[uc.ID] = uc
	return uc
}

func (s *Store) DeleteUseCase(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usecases[id]; !ok {
		return false
	}
	delete(s.usecases, id)
	return true
}

func (s *Store) Terms() model.Terms {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terms
}

func paginate[T any, P any](items []T, cursor string, page func([]T, string) P) P {
	offset, _ := strconv.Atoi(cursor)
	if offset < 0 || offset > len(items) {
		offset = len(items)
	}
	end := offset + pageSize
	next := ""
	if end < len(items) {
		next = strconv.Itoa(end)
	} else {
		end = len(items)
	}
	return page(items[offset:end], next)
}
