package identity

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"orgadmin/internal/models"
)

// Accounts stores identities of the local provider together with their profiles.
type Accounts interface {
	CreateAccount(ctx context.Context, account models.Account, profile models.Profile) (models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// Local keeps identities in the application's own database.
type Local struct {
	accounts Accounts
	cost     int
}

func NewLocal(accounts Accounts) *Local {
	return &Local{accounts: accounts, cost: bcrypt.DefaultCost}
}

func (l *Local) SignUp(ctx context.Context, params SignUpParams) (Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), l.cost)
	if err != nil {
		return Identity{}, fmt.Errorf("identity.Local.SignUp: %w", err)
	}

	account, err := l.accounts.CreateAccount(ctx, models.Account{
		Email:        params.Email,
		PasswordHash: hash,
		Metadata:     params.Metadata(),
	}, models.Profile{
		FullName: params.FullName,
		Email:    params.Email,
		Phone:    params.Phone,
	})
	if err != nil {
		return Identity{}, fmt.Errorf("identity.Local.SignUp: %w", err)
	}

	return Identity{Id: account.Id, Email: account.Email, CreatedAt: account.CreatedAt}, nil
}

func (l *Local) Delete(ctx context.Context, id string) error {
	err := l.accounts.DeleteAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("identity.Local.Delete: %w", err)
	}
	return nil
}
