package controller

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"orgadmin/internal/models"
)

// Add organization form

// OrganizationForm holds the add organization dialog fields as typed by the user.
type OrganizationForm struct {
	Name            string
	ContactName     string
	ContactEmail    string
	ContactPhone    string
	LicenseFrom     string
	LicenseTo       string
	MaxCoordinators string
	Timezone        string
	Language        string
	WebsiteURL      string
}

func DefaultOrganizationForm() OrganizationForm {
	return OrganizationForm{
		MaxCoordinators: strconv.Itoa(models.DefaultCoordinators),
		Timezone:        string(models.TZAsia),
		Language:        string(models.LangEnglish),
	}
}

func ParseOrganizationForm(values url.Values) OrganizationForm {
	return OrganizationForm{
		Name:            values.Get("name"),
		ContactName:     values.Get("contactName"),
		ContactEmail:    values.Get("contactEmail"),
		ContactPhone:    values.Get("contactPhone"),
		LicenseFrom:     values.Get("licenseFrom"),
		LicenseTo:       values.Get("licenseTo"),
		MaxCoordinators: values.Get("maxCoordinators"),
		Timezone:        values.Get("timezone"),
		Language:        values.Get("language"),
		WebsiteURL:      values.Get("websiteUrl"),
	}
}

// ToNewOrganization coerces the text fields into a row ready for insertion.
// Empty license dates become nil and the status is always active.
func (f OrganizationForm) ToNewOrganization() (models.NewOrganization, error) {
	o := models.NewOrganization{
		Name:         strings.TrimSpace(f.Name),
		ContactName:  strings.TrimSpace(f.ContactName),
		ContactEmail: strings.TrimSpace(f.ContactEmail),
		ContactPhone: strings.TrimSpace(f.ContactPhone),
		Timezone:     models.Timezone(f.Timezone),
		Language:     models.Language(f.Language),
		WebsiteURL:   strings.TrimSpace(f.WebsiteURL),
		Status:       models.OrganizationActive,
	}

	if o.Name == "" {
		return o, fmt.Errorf("%w: organization name is required", models.ErrInvalidForm)
	}
	for _, field := range []struct {
		name, value string
	}{
		{"name", o.Name},
		{"contactName", o.ContactName},
		{"contactEmail", o.ContactEmail},
		{"contactPhone", o.ContactPhone},
		{"websiteUrl", o.WebsiteURL},
	} {
		if err := checkLengthLimit(field.value, field.name, 255); err != nil {
			return o, err
		}
	}

	n, err := strconv.Atoi(strings.TrimSpace(f.MaxCoordinators))
	if err != nil {
		return o, fmt.Errorf("%w: max coordinators should be a number, got %q", models.ErrInvalidForm, f.MaxCoordinators)
	}
	if n < models.MinCoordinators || n > models.MaxCoordinators {
		return o, fmt.Errorf("%w: max coordinators should be between %d and %d, got %d", models.ErrInvalidForm, models.MinCoordinators, models.MaxCoordinators, n)
	}
	o.MaxCoordinators = n

	if !models.ValidTimezone(o.Timezone) {
		return o, fmt.Errorf("%w: invalid timezone supplied: %s", models.ErrInvalidForm, f.Timezone)
	}
	if !models.ValidLanguage(o.Language) {
		return o, fmt.Errorf("%w: invalid language supplied: %s", models.ErrInvalidForm, f.Language)
	}

	o.LicenseFrom, err = parseOptionalDate(f.LicenseFrom, "licenseFrom")
	if err != nil {
		return o, err
	}
	o.LicenseTo, err = parseOptionalDate(f.LicenseTo, "licenseTo")
	if err != nil {
		return o, err
	}
	if o.LicenseFrom != nil && o.LicenseTo != nil && o.LicenseTo.Time().Before(o.LicenseFrom.Time()) {
		return o, fmt.Errorf("%w: license end %s precedes license start %s", models.ErrInvalidForm, o.LicenseTo, o.LicenseFrom)
	}

	return o, nil
}

// New organization request

type NewOrganizationReq struct {
	Name            string `json:"name"`
	ContactName     string `json:"contact_name"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
	LicenseFrom     string `json:"license_from"`
	LicenseTo       string `json:"license_to"`
	MaxCoordinators *int   `json:"max_coordinators"`
	Timezone        string `json:"timezone"`
	Language        string `json:"language"`
	WebsiteURL      string `json:"website_url"`
}

// ParseNewOrganizationReq decodes a JSON body. Omitted fields take the dialog defaults.
func ParseNewOrganizationReq(data []byte) (models.NewOrganization, error) {
	req := NewOrganizationReq{}

	err := json.Unmarshal(data, &req)
	if err != nil {
		return models.NewOrganization{}, fmt.Errorf("%w: %w", models.ErrInvalidForm, err)
	}

	form := DefaultOrganizationForm()
	form.Name = req.Name
	form.ContactName = req.ContactName
	form.ContactEmail = req.ContactEmail
	form.ContactPhone = req.ContactPhone
	form.LicenseFrom = req.LicenseFrom
	form.LicenseTo = req.LicenseTo
	form.WebsiteURL = req.WebsiteURL
	if req.MaxCoordinators != nil {
		form.MaxCoordinators = strconv.Itoa(*req.MaxCoordinators)
	}
	if req.Timezone != "" {
		form.Timezone = req.Timezone
	}
	if req.Language != "" {
		form.Language = req.Language
	}

	return form.ToNewOrganization()
}

// Add user form

type UserForm struct {
	Email    string
	FullName string
	Phone    string
	Role     string
}

func DefaultUserForm() UserForm {
	return UserForm{Role: string(models.RoleUser)}
}

func ParseUserForm(values url.Values) UserForm {
	return UserForm{
		Email:    values.Get("email"),
		FullName: values.Get("fullName"),
		Phone:    values.Get("phone"),
		Role:     values.Get("role"),
	}
}

func (f UserForm) ToNewUser() (models.NewUser, error) {
	u := models.NewUser{
		Email:    strings.TrimSpace(f.Email),
		FullName: strings.TrimSpace(f.FullName),
		Phone:    strings.TrimSpace(f.Phone),
		Role:     models.Role(f.Role),
	}

	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !models.ValidRole(u.Role) {
		return u, fmt.Errorf("%w: invalid role supplied: %s, should be one of: %s, %s, %s", models.ErrInvalidForm, f.Role, models.RoleAdmin, models.RoleCoAdmin, models.RoleUser)
	}

	if u.Email == "" {
		return u, fmt.Errorf("%w: email is required", models.ErrInvalidForm)
	}
	addr, err := mail.ParseAddress(u.Email)
	if err != nil || addr.Address != u.Email {
		return u, fmt.Errorf("%w: invalid email supplied: %s", models.ErrInvalidForm, u.Email)
	}
	if u.FullName == "" {
		return u, fmt.Errorf("%w: full name is required", models.ErrInvalidForm)
	}

	if err = checkLengthLimit(u.FullName, "fullName", 255); err != nil {
		return u, err
	}
	if err = checkLengthLimit(u.Phone, "phone", 50); err != nil {
		return u, err
	}

	return u, nil
}

// New user request

type NewUserReq struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func ParseNewUserReq(data []byte) (models.NewUser, error) {
	req := NewUserReq{}

	err := json.Unmarshal(data, &req)
	if err != nil {
		return models.NewUser{}, fmt.Errorf("%w: %w", models.ErrInvalidForm, err)
	}

	return UserForm(req).ToNewUser()
}

// Service

func parseOptionalDate(value, fieldName string) (*models.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	d, err := models.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%w: field '%s' should be a date in %s format, got %q", models.ErrInvalidForm, fieldName, models.DateLayout, value)
	}
	return &d, nil
}

func checkLengthLimit(str, fieldName string, limit int) error {
	if len(str) > limit {
		return fmt.Errorf("%w: field '%s' exceeds length limit: %d / %d", models.ErrInvalidForm, fieldName, len(str), limit)
	}
	return nil
}
