package models

import "time"

type OrganizationStatus string

const (
	OrganizationActive   OrganizationStatus = "active"
	OrganizationInactive OrganizationStatus = "inactive"
)

func ValidOrganizationStatus(s OrganizationStatus) bool {
	switch s {
	case OrganizationActive, OrganizationInactive:
		return true
	default:
		return false
	}
}

type Timezone string

const (
	TZAsia    Timezone = "Asia (GMT+5:30)"
	TZEurope  Timezone = "Europe (GMT+1)"
	TZAmerica Timezone = "America (GMT-5)"
)

func Timezones() []Timezone {
	return []Timezone{TZAsia, TZEurope, TZAmerica}
}

func ValidTimezone(t Timezone) bool {
	switch t {
	case TZAsia, TZEurope, TZAmerica:
		return true
	default:
		return false
	}
}

type Language string

const (
	LangEnglish Language = "English"
	LangSpanish Language = "Spanish"
	LangFrench  Language = "French"
)

func Languages() []Language {
	return []Language{LangEnglish, LangSpanish, LangFrench}
}

func ValidLanguage(l Language) bool {
	switch l {
	case LangEnglish, LangSpanish, LangFrench:
		return true
	default:
		return false
	}
}

const (
	MinCoordinators     = 1
	MaxCoordinators     = 5
	DefaultCoordinators = 3
)

type Organization struct {
	Id              string             `json:"id"`
	Name            string             `json:"name"`
	ContactName     string             `json:"contact_name"`
	ContactEmail    string             `json:"contact_email"`
	ContactPhone    string             `json:"contact_phone"`
	LicenseFrom     *Date              `json:"license_from"`
	LicenseTo       *Date              `json:"license_to"`
	MaxCoordinators int                `json:"max_coordinators"`
	Timezone        Timezone           `json:"timezone"`
	Language        Language           `json:"language"`
	WebsiteURL      string             `json:"website_url"`
	LogoURL         *string            `json:"logo_url"`
	Status          OrganizationStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
}

// ShortId returns the first n characters of the identifier, used for display only.
func (o Organization) ShortId(n int) string {
	if len(o.Id) <= n {
		return o.Id
	}
	return o.Id[:n]
}

// NewOrganization holds the columns written by a single organizations insert.
type NewOrganization struct {
	Name            string
	ContactName     string
	ContactEmail    string
	ContactPhone    string
	LicenseFrom     *Date
	LicenseTo       *Date
	MaxCoordinators int
	Timezone        Timezone
	Language        Language
	WebsiteURL      string
	Status          OrganizationStatus
}
