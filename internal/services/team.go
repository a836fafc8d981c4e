package services

import (
	"context"
	"net/url"

	"github.com/Checker-Finance/maturity-client/pkg/model"
)

// Team wraps team membership and role assignment.
type Team struct {
	api API
}

func NewTeam(api API) *Team { return &Team{api: api} }

func (s *Team) Members(ctx context.Context) ([]model.TeamMember, error) {
	return decode[[]model.TeamMember](s.api.Get(ctx, "/team/members", nil))
}

func (s *Team) Invite(ctx context.Context, email, role string) (model.TeamMember, error) {
	return decode[model.TeamMember](s.api.Post(ctx, "/team/invite", model.InviteRequest{Email: email, Role: role}, nil))
}

func (s *Team) Remove(ctx context.Context, memberID string) error {
	return discard(s.api.Delete(ctx, "/team/members/"+url.PathEscape(memberID), nil))
}

func (s *Team) Roles(ctx context.Context) ([]model.Role, error) {
	return decode[[]model.Role](s.api.Get(ctx, "/roles", nil))
}

// AssignRole grants role to userID and returns the updated member.
func (s *Team) AssignRole(ctx context.Context, userID, role string) (model.TeamMember, error) {
	body := map[string]string{"role": role}
	return decode[model.TeamMember](s.api.Put(ctx, "/roles/"+url.PathEscape(userID), body, nil))
}
