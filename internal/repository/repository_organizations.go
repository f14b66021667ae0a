package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"orgadmin/internal/models"
)

const organizationColumns = `
		id,
		name,
		contact_name,
		contact_email,
		contact_phone,
		license_from,
		license_to,
		max_coordinators,
		timezone,
		language,
		website_url,
		logo_url,
		status,
		created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (models.Organization, error) {
	var (
		org         models.Organization
		licenseFrom sql.NullTime
		licenseTo   sql.NullTime
		logoURL     sql.NullString
	)

	err := row.Scan(
		&org.Id,
		&org.Name,
		&org.ContactName,
		&org.ContactEmail,
		&org.ContactPhone,
		&licenseFrom,
		&licenseTo,
		&org.MaxCoordinators,
		&org.Timezone,
		&org.Language,
		&org.WebsiteURL,
		&logoURL,
		&org.Status,
		&org.CreatedAt,
	)
	if err != nil {
		return org, err
	}

	org.LicenseFrom = nullDate(licenseFrom)
	org.LicenseTo = nullDate(licenseTo)
	if logoURL.Valid {
		org.LogoURL = &logoURL.String
	}
	return org, nil
}

// dateParam keeps absent dates as NULL rather than an empty string.
func dateParam(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func (repo *Repository) GetOrganizations(ctx context.Context) ([]models.Organization, error) {
	query := `
	SELECT` + organizationColumns + `
	FROM organizations
	ORDER BY created_at DESC, id DESC
	`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetOrganizations: %w", err)
	}
	defer rows.Close()

	result := make([]models.Organization, 0)
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetOrganizations: row scan failed: %w", err)
		}
		result = append(result, org)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.Repository.GetOrganizations: %w", err)
	}

	return result, nil
}

func (repo *Repository) OrganizationByUUID(ctx context.Context, organizationId string) (models.Organization, error) {
	query := `
	SELECT` + organizationColumns + `
	FROM organizations
	WHERE id = $1
	`

	org, err := scanOrganization(repo.db.QueryRowContext(ctx, query, organizationId))
	switch {
	case errors.Is(err, sql.ErrNoRows) || isInvalidId(err):
		return org, fmt.Errorf("repository.Repository.OrganizationByUUID: no organization found by UUID %s: %w", organizationId, models.ErrNoOrganization)
	case err != nil:
		return org, fmt.Errorf("repository.Repository.OrganizationByUUID: %w", err)
	}

	return org, nil
}

func (repo *Repository) AddOrganization(ctx context.Context, o models.NewOrganization) (models.Organization, error) {
	query := `
	INSERT INTO organizations
		(name, contact_name, contact_email, contact_phone, license_from, license_to,
		 max_coordinators, timezone, language, website_url, status)
	VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING` + organizationColumns

	row := repo.db.QueryRowContext(ctx, query,
		o.Name,
		o.ContactName,
		o.ContactEmail,
		o.ContactPhone,
		dateParam(o.LicenseFrom),
		dateParam(o.LicenseTo),
		o.MaxCoordinators,
		o.Timezone,
		o.Language,
		o.WebsiteURL,
		o.Status,
	)

	org, err := scanOrganization(row)
	if err != nil {
		return org, fmt.Errorf("repository.Repository.AddOrganization: %w", mapPostgresError(err))
	}

	zerolog.Ctx(ctx).Debug().
		Str("organization_id", org.Id).
		Str("name", org.Name).
		Msg("Created organization")

	return org, nil
}
