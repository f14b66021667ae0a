// Package memory keeps every table in process memory. It backs STORAGE=memory
// and the service and handler tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"orgadmin/internal/models"
)

type Operation string

const (
	OpGetOrganizations    Operation = "GetOrganizations"
	OpOrganizationByUUID  Operation = "OrganizationByUUID"
	OpAddOrganization     Operation = "AddOrganization"
	OpAddOrganizationUser Operation = "AddOrganizationUser"
	OpOrganizationUsers   Operation = "OrganizationUsers"
	OpProfilesByIds       Operation = "ProfilesByIds"
	OpCreateAccount       Operation = "CreateAccount"
	OpDeleteAccount       Operation = "DeleteAccount"
)

type Store struct {
	mu sync.Mutex

	organizations []models.Organization
	members       []models.OrganizationUser
	profiles      map[string]models.Profile
	accounts      map[string]models.Account

	calls    map[Operation]int
	failures map[Operation]error
	now      func() time.Time
}

func New() *Store {
	return &Store{
		profiles: make(map[string]models.Profile),
		accounts: make(map[string]models.Account),
		calls:    make(map[Operation]int),
		failures: make(map[Operation]error),
		now:      time.Now,
	}
}

// FailOn makes every following call of op return err. A nil err clears it.
func (s *Store) FailOn(op Operation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls reports how many times op was invoked, failed calls included.
func (s *Store) Calls(op Operation) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// PutProfile stores a profile directly, the way an external identity provider would.
func (s *Store) PutProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.profiles[p.Id] = p
}

func (s *Store) Accounts() []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		result = append(result, a)
	}
	return result
}

func (s *Store) Close() error {
	return nil
}

// enter must be called with mu held.
func (s *Store) enter(ctx context.Context, op Operation) error {
	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory.Store.%s: %w", op, err)
	}
	if err, ok := s.failures[op]; ok {
		return fmt.Errorf("memory.Store.%s: %w", op, err)
	}
	return nil
}

//// Organizations

func (s *Store) GetOrganizations(ctx context.Context) ([]models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(ctx, OpGetOrganizations); err != nil {
		return nil, err
	}

	result := make([]models.Organization, len(s.organizations))
	copy(result, s.organizations)
	slices.Reverse(result)
	return result, nil
}

func (s *Store) OrganizationByUUID(ctx context.Context, organizationId string) (models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(ctx, OpOrganizationByUUID); err != nil {
		return models.Organization{}, err
	}

	i := slices.IndexFunc(s.organizations, func(o models.Organization) bool { return o.Id == organizationId })
	if i < 0 {
		return models.Organization{}, fmt.Errorf("memory.Store.OrganizationByUUID: no organization found by UUID %s: %w", organizationId, models.ErrNoOrganization)
	}
	return s.organizations[i], nil
}

func (s *Store) AddOrganization(ctx context.Context, o models.NewOrganization) (models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(ctx, OpAddOrganization); err != nil {
		return models.Organization{}, err
	}

	switch {
	case strings.TrimSpace(o.Name) == "":
		return models.Organization{}, fmt.Errorf("memory.Store.AddOrganization: %w: empty name", models.ErrInvalidForm)
	case o.MaxCoordinators < models.MinCoordinators || o.MaxCoordinators > models.MaxCoordinators:
		return models.Organization{}, fmt.Errorf("memory.Store.AddOrganization: %w: max coordinators %d", models.ErrInvalidForm, o.MaxCoordinators)
	case !models.ValidOrganizationStatus(o.Status):
		return models.Organization{}, fmt.Errorf("memory.Store.AddOrganization: %w: status %q", models.ErrInvalidForm, o.Status)
	}

	org := models.Organization{
		Id:              uuid.NewString(),
		Name:            o.Name,
		ContactName:     o.ContactName,
		ContactEmail:    o.ContactEmail,
		ContactPhone:    o.ContactPhone,
		LicenseFrom:     o.LicenseFrom,
		LicenseTo:       o.LicenseTo,
		MaxCoordinators: o.MaxCoordinators,
		Timezone:        o.Timezone,
		Language:        o.Language,
		WebsiteURL:      o.WebsiteURL,
		Status:          o.Status,
		CreatedAt:       s.now(),
	}
	s.organizations = append(s.organizations, org)
	return org, nil
}

//// Members

func (s *Store) AddOrganizationUser(ctx context.Context, u models.OrganizationUser) (models.OrganizationUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(ctx, OpAddOrganizationUser); err != nil {
		return u, err
	}

	if !slices.ContainsFunc(s.organizations, func(o models.Organization) bool { return o.Id == u.OrganizationId }) {
		return u, fmt.Errorf("memory.Store.AddOrganizationUser: %w: organization %s", models.ErrReference, u.OrganizationId)
	}
	if !models.ValidRole(u.Role) {
		return u, fmt.Errorf("memory.Store.AddOrganizationUser: %w: role %q", models.ErrInvalidForm, u.Role)
	}

	u.Id = uuid.NewString()
	u.CreatedAt = s.now()
	s.members = append(s.members, u)
	return u, nil
}

func (s *Store) OrganizationUsers(ctx context.Context, organizationId string) ([]models.OrganizationUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(ctx, OpOrganizationUsers); err != nil {
		return nil, err
	}

	result := make([]models.OrganizationUser, 0)
	for _, u := range s.members {
		if u.OrganizationId == organizationId {
			result = append(result, u)
		}
	}
	return result, nil
}

func (s *Store) ProfilesByIds(ctx context.Context, ids []string) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(ctx, OpProfilesByIds); err != nil {
		return nil, err
	}

	result := make([]models.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

//// Accounts

func (s *Store) CreateAccount(ctx context.Context, account models.Account, profile models.Profile) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(ctx, OpCreateAccount); err != nil {
		return account, err
	}

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return account, fmt.Errorf("memory.Store.CreateAccount: %w: email %s", models.ErrDuplicate, account.Email)
		}
	}

	account.Id = uuid.NewString()
	account.CreatedAt = s.now()
	s.accounts[account.Id] = account

	profile.Id = account.Id
	profile.CreatedAt = account.CreatedAt
	s.profiles[profile.Id] = profile

	return account, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(ctx, OpDeleteAccount); err != nil {
		return err
	}

	delete(s.accounts, id)
	delete(s.profiles, id)
	return nil
}
