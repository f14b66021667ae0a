package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"orgadmin/internal/models"
)

// CreateAccount stores the identity and its profile in one transaction, so a
// profile never exists without the account it describes.
func (repo *Repository) CreateAccount(ctx context.Context, account models.Account, profile models.Profile) (models.Account, error) {
	result := account

	metadata, err := json.Marshal(account.Metadata)
	if err != nil {
		return result, fmt.Errorf("repository.Repository.CreateAccount: could not marshal metadata: %w", err)
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("repository.Repository.CreateAccount: %w", err)
	}

	query := `
	INSERT INTO auth_users
		(email, password_hash, metadata)
	VALUES
		($1, $2, $3)
	RETURNING
		id, created_at
	`

	row := tx.QueryRowContext(ctx, query, account.Email, account.PasswordHash, metadata)
	err = row.Scan(&result.Id, &result.CreatedAt)
	if err != nil {
		return result, fmt.Errorf("repository.Repository.CreateAccount: %w", wrapRollbackErr(tx, mapPostgresError(err)))
	}

	query = `
	INSERT INTO profiles
		(id, full_name, email, phone)
	VALUES
		($1, $2, $3, $4)
	`

	_, err = tx.ExecContext(ctx, query, result.Id, profile.FullName, profile.Email, profile.Phone)
	if err != nil {
		return result, fmt.Errorf("repository.Repository.CreateAccount: could not insert profile: %w", wrapRollbackErr(tx, mapPostgresError(err)))
	}

	err = tx.Commit()
	if err != nil {
		return result, fmt.Errorf("repository.Repository.CreateAccount: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("user_id", result.Id).
		Str("email", result.Email).
		Msg("Created local account")

	return result, nil
}

func (repo *Repository) DeleteAccount(ctx context.Context, id string) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository.Repository.DeleteAccount: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM profiles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("repository.Repository.DeleteAccount: %w", wrapRollbackErr(tx, err))
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM auth_users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("repository.Repository.DeleteAccount: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("repository.Repository.DeleteAccount: %w", err)
	}

	return nil
}
