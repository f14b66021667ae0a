package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"orgadmin/internal/identity"
	"orgadmin/internal/metrics"
	"orgadmin/internal/models"
	"orgadmin/internal/querycache"
)

type Store interface {
	GetOrganizations(ctx context.Context) ([]models.Organization, error)
	OrganizationByUUID(ctx context.Context, organizationId string) (models.Organization, error)
	AddOrganization(ctx context.Context, o models.NewOrganization) (models.Organization, error)

	AddOrganizationUser(ctx context.Context, u models.OrganizationUser) (models.OrganizationUser, error)
	OrganizationUsers(ctx context.Context, organizationId string) ([]models.OrganizationUser, error)
	ProfilesByIds(ctx context.Context, ids []string) ([]models.Profile, error)
}

const (
	QueryOrganizations     = "organizations"
	QueryOrganization      = "organization"
	QueryOrganizationUsers = "organization-users"
)

func OrganizationsKey() querycache.Key {
	return querycache.NewKey(QueryOrganizations)
}

func OrganizationKey(organizationId string) querycache.Key {
	return querycache.NewKey(QueryOrganization, organizationId)
}

func OrganizationUsersKey(organizationId string) querycache.Key {
	return querycache.NewKey(QueryOrganizationUsers, organizationId)
}

const (
	opAddOrganization = "add_organization"
	opAddUser         = "add_user"

	outcomeSuccess     = "success"
	outcomeFailure     = "failure"
	outcomeCompensated = "compensated"
	outcomeOrphaned    = "orphaned"
)

type Service struct {
	store    Store
	identity identity.Provider
	cache    *querycache.Cache
	log      zerolog.Logger

	// overridable in tests
	password func() string
}

func New(store Store, provider identity.Provider, cache *querycache.Cache, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		identity: provider,
		cache:    cache,
		log:      logger,
		password: identity.TemporaryPassword,
	}
}

// logger prefers the request scoped logger carried by ctx.
func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.log
}

//// Organizations

func (s *Service) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs, err := querycache.Fetch(ctx, s.cache, OrganizationsKey(), s.store.GetOrganizations)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListOrganizations: %w", err)
	}
	return orgs, nil
}

func (s *Service) GetOrganization(ctx context.Context, organizationId string) (models.Organization, error) {
	org, err := querycache.Fetch(ctx, s.cache, OrganizationKey(organizationId), func(ctx context.Context) (models.Organization, error) {
		return s.store.OrganizationByUUID(ctx, organizationId)
	})
	if err != nil {
		return org, fmt.Errorf("service.Service.GetOrganization: %w", err)
	}
	return org, nil
}

func (s *Service) AddOrganization(ctx context.Context, o models.NewOrganization) (models.Organization, error) {
	o.Status = models.OrganizationActive

	org, err := s.store.AddOrganization(ctx, o)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(opAddOrganization, outcomeFailure).Inc()
		s.logger(ctx).Warn().Err(err).Str("name", o.Name).Msg("Organization was not created")
		return org, fmt.Errorf("service.Service.AddOrganization: %w: %w", models.ErrOrganizationCreation, err)
	}

	s.cache.Invalidate(OrganizationsKey())
	metrics.MutationsTotal.WithLabelValues(opAddOrganization, outcomeSuccess).Inc()
	s.logger(ctx).Info().Str("organization_id", org.Id).Str("name", org.Name).Msg("Organization created")

	return org, nil
}

//// Members

// OrganizationMembers returns memberships of the organization in insertion
// order, each joined with its profile when one exists.
func (s *Service) OrganizationMembers(ctx context.Context, organizationId string) ([]models.MemberView, error) {
	members, err := querycache.Fetch(ctx, s.cache, OrganizationUsersKey(organizationId), func(ctx context.Context) ([]models.MemberView, error) {
		return s.fetchMembers(ctx, organizationId)
	})
	if err != nil {
		return nil, fmt.Errorf("service.Service.OrganizationMembers: %w", err)
	}
	return members, nil
}

func (s *Service) fetchMembers(ctx context.Context, organizationId string) ([]models.MemberView, error) {
	users, err := s.store.OrganizationUsers(ctx, organizationId)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []models.MemberView{}, nil
	}

	ids := lo.Uniq(lo.Map(users, func(u models.OrganizationUser, _ int) string { return u.UserId }))
	profiles, err := s.store.ProfilesByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	return JoinProfiles(users, profiles), nil
}

// JoinProfiles attaches profiles to memberships by user id. Memberships keep
// their order; the ones without a profile get a nil Profile.
func JoinProfiles(users []models.OrganizationUser, profiles []models.Profile) []models.MemberView {
	byId := lo.KeyBy(profiles, func(p models.Profile) string { return p.Id })

	return lo.Map(users, func(u models.OrganizationUser, _ int) models.MemberView {
		view := models.MemberView{OrganizationUser: u}
		if p, ok := byId[u.UserId]; ok {
			view.Profile = &p
		}
		return view
	})
}

// AddUser creates an identity and then the membership linking it to the
// organization. When the membership cannot be stored the identity is deleted
// again.
func (s *Service) AddUser(ctx context.Context, organizationId string, u models.NewUser) (models.OrganizationUser, error) {
	log := s.logger(ctx).With().Str("organization_id", organizationId).Str("email", u.Email).Logger()

	ident, err := s.identity.SignUp(ctx, identity.SignUpParams{
		Email:    u.Email,
		Password: s.password(),
		FullName: u.FullName,
		Phone:    u.Phone,
	})
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(opAddUser, outcomeFailure).Inc()
		log.Warn().Err(err).Msg("Identity was not created")
		return models.OrganizationUser{}, fmt.Errorf("service.Service.AddUser: %w: %w", models.ErrIdentityCreation, err)
	}

	member, err := s.store.AddOrganizationUser(ctx, models.OrganizationUser{
		OrganizationId: organizationId,
		UserId:         ident.Id,
		Role:           u.Role,
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", models.ErrMembershipCreation, err)

		// the request may already be cancelled, compensation must still run
		delErr := s.identity.Delete(context.WithoutCancel(ctx), ident.Id)
		if delErr != nil {
			metrics.MutationsTotal.WithLabelValues(opAddUser, outcomeOrphaned).Inc()
			metrics.OrphanedIdentitiesTotal.Inc()
			log.Error().Err(delErr).AnErr("membership_error", err).Str("user_id", ident.Id).Msg("Identity left without membership")
			return models.OrganizationUser{}, fmt.Errorf("service.Service.AddUser: %w", errors.Join(err, delErr))
		}

		metrics.MutationsTotal.WithLabelValues(opAddUser, outcomeCompensated).Inc()
		log.Warn().Err(err).Str("user_id", ident.Id).Msg("Membership was not created, identity removed")
		return models.OrganizationUser{}, fmt.Errorf("service.Service.AddUser: %w", err)
	}

	s.cache.Invalidate(OrganizationUsersKey(organizationId))
	metrics.MutationsTotal.WithLabelValues(opAddUser, outcomeSuccess).Inc()
	log.Info().Str("user_id", ident.Id).Str("role", string(member.Role)).Msg("User added to organization")

	return member, nil
}
