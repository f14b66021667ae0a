// Package identity creates and removes user identities for the user
// management flows. Implementations talk either to a hosted GoTrue auth API
// or to the local accounts table.
package identity

import (
	"context"
	"time"

	gofakeit "github.com/brianvoe/gofakeit/v7"
	"github.com/brianvoe/gofakeit/v7/source"
)

type Provider interface {
	SignUp(ctx context.Context, params SignUpParams) (Identity, error)
	Delete(ctx context.Context, id string) error
}

type SignUpParams struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// Metadata is the user metadata attached to a new identity.
// Phone is omitted when empty.
func (p SignUpParams) Metadata() map[string]string {
	m := map[string]string{"full_name": p.FullName}
	if p.Phone != "" {
		m["phone"] = p.Phone
	}
	return m
}

type Identity struct {
	Id        string
	Email     string
	CreatedAt time.Time
}

const TemporaryPasswordLength = 12

var passwordFaker = gofakeit.NewFaker(source.NewCrypto(), true)

// TemporaryPassword returns a random password from a cryptographically secure
// source. It is never shown to anyone; users reset it through the provider.
func TemporaryPassword() string {
	return passwordFaker.Password(true, true, true, false, false, TemporaryPasswordLength)
}
