package repository

import (
	"context"
	"os"
	"testing"
	"time"

	gofakeit "github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgadmin/internal/config"
	"orgadmin/internal/models"
)

// Connection string of a disposable database. Tests are skipped when unset.
const TestDBConnEnv = "ORGADMIN_TEST_POSTGRES"

func TestNewRepository(t *testing.T) {
	repo := OpenTestRepo(t)
	require.NoError(t, repo.Close())
}

func TestOrganizations(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()
	ctx := context.Background()

	from := models.Date{Year: 2024, Month: time.January, Day: 15}
	first, err := repo.AddOrganization(ctx, RandomNewOrganization(&from, nil))
	require.NoError(t, err)
	assert.NotEmpty(t, first.Id)
	assert.Equal(t, models.OrganizationActive, first.Status)
	require.NotNil(t, first.LicenseFrom)
	assert.Equal(t, from, *first.LicenseFrom)
	assert.Nil(t, first.LicenseTo)
	assert.Nil(t, first.LogoURL)

	second, err := repo.AddOrganization(ctx, RandomNewOrganization(nil, nil))
	require.NoError(t, err)

	orgs, err := repo.GetOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, second.Id, orgs[0].Id, "newest organization goes first")
	assert.Equal(t, first.Id, orgs[1].Id)

	got, err := repo.OrganizationByUUID(ctx, first.Id)
	require.NoError(t, err)
	assert.Equal(t, first.Name, got.Name)
	assert.Equal(t, first.MaxCoordinators, got.MaxCoordinators)

	_, err = repo.OrganizationByUUID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, models.ErrNoOrganization)

	_, err = repo.OrganizationByUUID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrNoOrganization)
}

func TestAddOrganizationConstraints(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()

	o := RandomNewOrganization(nil, nil)
	o.MaxCoordinators = 9
	_, err := repo.AddOrganization(context.Background(), o)
	assert.ErrorIs(t, err, models.ErrInvalidForm)

	o = RandomNewOrganization(nil, nil)
	o.Name = " "
	_, err = repo.AddOrganization(context.Background(), o)
	assert.ErrorIs(t, err, models.ErrInvalidForm)
}

func TestOrganizationUsersAndProfiles(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()
	ctx := context.Background()

	org, err := repo.AddOrganization(ctx, RandomNewOrganization(nil, nil))
	require.NoError(t, err)

	users, err := repo.OrganizationUsers(ctx, org.Id)
	require.NoError(t, err)
	assert.Empty(t, users)

	account, err := repo.CreateAccount(ctx, models.Account{
		Email:        gofakeit.Email(),
		PasswordHash: []byte("hash"),
		Metadata:     map[string]string{"full_name": "Jane Doe"},
	}, models.Profile{FullName: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	withProfile, err := repo.AddOrganizationUser(ctx, models.OrganizationUser{OrganizationId: org.Id, UserId: account.Id, Role: models.RoleAdmin})
	require.NoError(t, err)
	orphan, err := repo.AddOrganizationUser(ctx, models.OrganizationUser{OrganizationId: org.Id, UserId: gofakeit.UUID(), Role: models.RoleUser})
	require.NoError(t, err)

	users, err = repo.OrganizationUsers(ctx, org.Id)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, withProfile.Id, users[0].Id)
	assert.Equal(t, orphan.Id, users[1].Id)

	profiles, err := repo.ProfilesByIds(ctx, []string{account.Id, orphan.UserId})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Jane Doe", profiles[0].FullName)

	profiles, err = repo.ProfilesByIds(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, profiles)

	_, err = repo.AddOrganizationUser(ctx, models.OrganizationUser{OrganizationId: "00000000-0000-0000-0000-000000000000", UserId: account.Id, Role: models.RoleUser})
	assert.ErrorIs(t, err, models.ErrReference)

	_, err = repo.AddOrganizationUser(ctx, models.OrganizationUser{OrganizationId: org.Id, UserId: account.Id, Role: "owner"})
	assert.ErrorIs(t, err, models.ErrInvalidForm)
}

func TestAccounts(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()
	ctx := context.Background()

	email := gofakeit.Email()
	account, err := repo.CreateAccount(ctx, models.Account{Email: email, PasswordHash: []byte("hash")}, models.Profile{Email: email})
	require.NoError(t, err)

	_, err = repo.CreateAccount(ctx, models.Account{Email: email, PasswordHash: []byte("hash")}, models.Profile{Email: email})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	require.NoError(t, repo.DeleteAccount(ctx, account.Id))

	profiles, err := repo.ProfilesByIds(ctx, []string{account.Id})
	require.NoError(t, err)
	assert.Empty(t, profiles)

	var count int
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM auth_users").Scan(&count))
	assert.Zero(t, count)
}

//// Service

func OpenTestRepo(t *testing.T) *Repository {
	conn := os.Getenv(TestDBConnEnv)
	if conn == "" {
		t.Skipf("%s is not set, skipping postgres tests", TestDBConnEnv)
	}

	cfg, err := config.NewPostgresConfig()
	require.NoError(t, err)
	cfg.Conn = conn
	cfg.AutoMigrateUp = false
	cfg.AutoMigrateDown = false

	repo, err := NewRepository(context.Background(), nil, cfg)
	if err != nil {
		t.Fatalf("Could not open db by URL '%s': %s", cfg.Conn, err)
	}

	err = repo.MigrateDown() // clear potential leftovers
	require.NoError(t, err)

	err = repo.MigrateUp()
	require.NoError(t, err)

	return repo
}

func RandomNewOrganization(from, to *models.Date) models.NewOrganization {
	return models.NewOrganization{
		Name:            gofakeit.Company(),
		ContactName:     gofakeit.Name(),
		ContactEmail:    gofakeit.Email(),
		ContactPhone:    gofakeit.Phone(),
		LicenseFrom:     from,
		LicenseTo:       to,
		MaxCoordinators: models.DefaultCoordinators,
		Timezone:        models.TZEurope,
		Language:        models.LangFrench,
		WebsiteURL:      gofakeit.URL(),
		Status:          models.OrganizationActive,
	}
}
