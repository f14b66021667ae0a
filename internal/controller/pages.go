package controller

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"orgadmin/internal/models"
	"orgadmin/internal/views"
)

const (
	TabDetails = "details"
	TabUsers   = "users"
)

type OrganizationsPage struct {
	Title         string
	Notice        *views.Notice
	Organizations []models.Organization
	Form          OrganizationForm
	DialogOpen    bool
	Timezones     []models.Timezone
	Languages     []models.Language
}

type OrganizationPage struct {
	Title        string
	Notice       *views.Notice
	Organization models.Organization
	Members      []models.MemberView
	Tab          string
	Form         UserForm
	DialogOpen   bool
	Roles        []models.Role
}

type NotFoundPage struct {
	Title   string
	Notice  *views.Notice
	Message string
}

// GET /
// GET /organizations
func (c *Controller) OrganizationsPage(w http.ResponseWriter, r *http.Request) {
	page, err := c.organizationsPage(r, DefaultOrganizationForm())
	page.Notice = popFlash(w, r)

	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
		page.Notice = &views.Notice{Kind: views.NoticeError, Text: "Failed to load organizations"}
	}

	c.render(w, r, status, views.PageOrganizations, page)
}

// POST /organizations
func (c *Controller) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		c.render(w, r, http.StatusBadRequest, views.PageOrganizations, c.failedOrganizationPage(r, DefaultOrganizationForm()))
		return
	}

	form := ParseOrganizationForm(r.PostForm)

	o, err := form.ToNewOrganization()
	if err == nil {
		_, err = c.service.AddOrganization(r.Context(), o)
	}
	if err != nil {
		status := errorStatus(err)
		logServiceError(r, status, err)
		c.render(w, r, status, views.PageOrganizations, c.failedOrganizationPage(r, form))
		return
	}

	setFlash(w, views.NoticeSuccess, MsgOrganizationCreated)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GET /organizations/{organizationId}
func (c *Controller) OrganizationPage(w http.ResponseWriter, r *http.Request) {
	org, ok := c.organizationOrNotFound(w, r)
	if !ok {
		return
	}

	tab := TabDetails
	if r.URL.Query().Get("tab") == TabUsers {
		tab = TabUsers
	}

	page, err := c.organizationPage(r, org, tab, DefaultUserForm())
	page.Notice = popFlash(w, r)

	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
		page.Notice = &views.Notice{Kind: views.NoticeError, Text: "Failed to load users"}
	}

	c.render(w, r, status, views.PageOrganization, page)
}

// POST /organizations/{organizationId}/users
func (c *Controller) CreateOrganizationUser(w http.ResponseWriter, r *http.Request) {
	org, ok := c.organizationOrNotFound(w, r)
	if !ok {
		return
	}

	form := DefaultUserForm()
	err := r.ParseForm()
	if err == nil {
		form = ParseUserForm(r.PostForm)

		var u models.NewUser
		u, err = form.ToNewUser()
		if err == nil {
			_, err = c.service.AddUser(r.Context(), org.Id, u)
		}
	}
	if err != nil {
		status := errorStatus(err)
		logServiceError(r, status, err)

		page, _ := c.organizationPage(r, org, TabUsers, form)
		page.DialogOpen = true
		page.Notice = &views.Notice{Kind: views.NoticeError, Text: MsgUserFailed}
		if errors.Is(err, models.ErrMembershipCreation) {
			page.Notice.Text = MsgMembershipFailed
		}

		c.render(w, r, status, views.PageOrganization, page)
		return
	}

	setFlash(w, views.NoticeSuccess, MsgUserAdded)
	http.Redirect(w, r, "/organizations/"+org.Id+"?tab="+TabUsers, http.StatusSeeOther)
}

// NotFound answers every route nothing else matched.
func (c *Controller) NotFound(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusNotFound, views.PageNotFound, NotFoundPage{
		Title:   "Not found",
		Message: "Page not found",
	})
}

// Service

func (c *Controller) organizationsPage(r *http.Request, form OrganizationForm) (OrganizationsPage, error) {
	page := OrganizationsPage{
		Title:     "Organizations",
		Form:      form,
		Timezones: models.Timezones(),
		Languages: models.Languages(),
	}

	orgs, err := c.service.ListOrganizations(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Could not list organizations")
		return page, err
	}
	page.Organizations = orgs

	return page, nil
}

func (c *Controller) failedOrganizationPage(r *http.Request, form OrganizationForm) OrganizationsPage {
	page, _ := c.organizationsPage(r, form)
	page.DialogOpen = true
	page.Notice = &views.Notice{Kind: views.NoticeError, Text: MsgOrganizationFailed}
	return page
}

func (c *Controller) organizationPage(r *http.Request, org models.Organization, tab string, form UserForm) (OrganizationPage, error) {
	page := OrganizationPage{
		Title:        org.Name,
		Organization: org,
		Tab:          tab,
		Form:         form,
		Roles:        models.Roles(),
	}

	members, err := c.service.OrganizationMembers(r.Context(), org.Id)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("organization_id", org.Id).Msg("Could not list organization users")
		return page, err
	}
	page.Members = members

	return page, nil
}

// organizationOrNotFound loads the organization named by the path. When it
// does not exist the not found page is written and nothing else is queried.
func (c *Controller) organizationOrNotFound(w http.ResponseWriter, r *http.Request) (models.Organization, bool) {
	org, err := c.service.GetOrganization(r.Context(), r.PathValue("organizationId"))
	if err == nil {
		return org, true
	}

	status := errorStatus(err)
	logServiceError(r, status, err)

	message := MsgOrganizationNotFound
	if status != http.StatusNotFound {
		message = "Failed to load organization"
	}

	c.render(w, r, status, views.PageNotFound, NotFoundPage{
		Title:   "Not found",
		Message: message,
	})
	return org, false
}

func (c *Controller) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	err := c.views.Render(&buf, page, data)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("Could not render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
