package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"orgadmin/internal/models"
)

func (repo *Repository) AddOrganizationUser(ctx context.Context, u models.OrganizationUser) (models.OrganizationUser, error) {
	result := u

	query := `
	INSERT INTO organization_users
		(organization_id, user_id, role)
	VALUES
		($1, $2, $3)
	RETURNING
		id, created_at
	`

	row := repo.db.QueryRowContext(ctx, query, u.OrganizationId, u.UserId, u.Role)
	err := row.Scan(&result.Id, &result.CreatedAt)
	if err != nil {
		if isInvalidId(err) {
			return result, fmt.Errorf("repository.Repository.AddOrganizationUser: %w: %w", models.ErrReference, err)
		}
		return result, fmt.Errorf("repository.Repository.AddOrganizationUser: %w", mapPostgresError(err))
	}

	zerolog.Ctx(ctx).Debug().
		Str("organization_id", result.OrganizationId).
		Str("user_id", result.UserId).
		Str("role", string(result.Role)).
		Msg("Added user to organization")

	return result, nil
}

func (repo *Repository) OrganizationUsers(ctx context.Context, organizationId string) ([]models.OrganizationUser, error) {
	query := `
	SELECT
		id,
		organization_id,
		user_id,
		role,
		created_at
	FROM organization_users
	WHERE organization_id = $1
	ORDER BY created_at, id
	`

	rows, err := repo.db.QueryContext(ctx, query, organizationId)
	if err != nil {
		if isInvalidId(err) {
			return []models.OrganizationUser{}, nil
		}
		return nil, fmt.Errorf("repository.Repository.OrganizationUsers: %w", err)
	}
	defer rows.Close()

	result := make([]models.OrganizationUser, 0)
	var u models.OrganizationUser
	for rows.Next() {
		err = rows.Scan(&u.Id, &u.OrganizationId, &u.UserId, &u.Role, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.OrganizationUsers: row scan failed: %w", err)
		}
		result = append(result, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.Repository.OrganizationUsers: %w", err)
	}

	return result, nil
}

func (repo *Repository) ProfilesByIds(ctx context.Context, ids []string) ([]models.Profile, error) {
	result := make([]models.Profile, 0, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
	SELECT
		id,
		full_name,
		email,
		phone,
		created_at
	FROM profiles
	WHERE id = ANY($1::uuid[])
	`

	rows, err := repo.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.ProfilesByIds: %w", err)
	}
	defer rows.Close()

	var p models.Profile
	for rows.Next() {
		err = rows.Scan(&p.Id, &p.FullName, &p.Email, &p.Phone, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.ProfilesByIds: row scan failed: %w", err)
		}
		result = append(result, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.Repository.ProfilesByIds: %w", err)
	}

	return result, nil
}
