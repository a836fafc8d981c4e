package model

// User is the account attached to a signed-in session.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	OrgID  string `json:"org_id,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
}

// AuthPayload is returned by sign-in and sign-up.
type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// TeamMember is a user within the caller's organisation.
type TeamMember struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	JoinedAt string `json:"joined_at,omitempty"`
}

// InviteRequest is the body of POST /team/invite.
type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Role describes a permission set that can be granted to team members.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

// Terms is the Terms-of-Service document. Content is an HTML fragment.
type Terms struct {
	Version   string `json:"version,omitempty"`
	Content   string `json:"content"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
