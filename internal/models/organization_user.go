package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCoAdmin Role = "co-admin"
	RoleUser    Role = "user"
)

func Roles() []Role {
	return []Role{RoleAdmin, RoleCoAdmin, RoleUser}
}

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleCoAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// OrganizationUser is a membership row linking one identity to one organization with one role.
type OrganizationUser struct {
	Id             string    `json:"id"`
	OrganizationId string    `json:"organization_id"`
	UserId         string    `json:"user_id"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

type Profile struct {
	Id        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

const UnknownUserName = "Unknown User"

// MemberView is a membership enriched with the matching profile, if any.
// It only lives for the duration of a cached query result.
type MemberView struct {
	OrganizationUser
	Profile *Profile `json:"profile"`
}

func (m MemberView) DisplayName() string {
	if m.Profile == nil || strings.TrimSpace(m.Profile.FullName) == "" {
		return UnknownUserName
	}
	return m.Profile.FullName
}

// Initial is the avatar letter: the upper-cased first rune of the full name, or "U".
func (m MemberView) Initial() string {
	if m.Profile == nil {
		return "U"
	}
	name := strings.TrimSpace(m.Profile.FullName)
	if name == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// Account is an identity stored by the local identity provider.
type Account struct {
	Id           string
	Email        string
	PasswordHash []byte
	Metadata     map[string]string
	CreatedAt    time.Time
}

// NewUser is what an administrator enters to create a user inside an organization.
type NewUser struct {
	Email    string
	FullName string
	Phone    string
	Role     Role
}
