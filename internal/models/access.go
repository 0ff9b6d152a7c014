package models

import "time"

type Permission string

const (
	PermissionRead Permission = "read"
	PermissionEdit Permission = "edit"
)

func (p Permission) Valid() bool {
	return p == PermissionRead || p == PermissionEdit
}

// TeamMember is someone a document can be shared with.
type TeamMember struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// AccessGrant gives one team member access to one document.
type AccessGrant struct {
	DocumentID string     `json:"document_id"`
	MemberID   string     `json:"member_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Permission Permission `json:"permission"`
	GrantedBy  string     `json:"granted_by,omitempty"`
	GrantedAt  time.Time  `json:"granted_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
