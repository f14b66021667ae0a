package controller

import (
	"net/http"

	"orgadmin/internal/export"
)

// GET /api/organizations
func (c *Controller) GetOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := c.service.ListOrganizations(r.Context())
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, orgs)
}

// POST /api/organizations
func (c *Controller) NewOrganization(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	o, err := ParseNewOrganizationReq(data)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	org, err := c.service.AddOrganization(r.Context(), o)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, MessageResponse{Message: MsgOrganizationCreated, Organization: &org})
}

// GET /api/organizations/export.xlsx
func (c *Controller) ExportOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := c.service.ListOrganizations(r.Context())
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	data, err := export.Organizations(orgs)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="organizations.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GET /api/organizations/{organizationId}
func (c *Controller) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := c.service.GetOrganization(r.Context(), r.PathValue("organizationId"))
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, org)
}

// GET /api/organizations/{organizationId}/users
func (c *Controller) GetOrganizationUsers(w http.ResponseWriter, r *http.Request) {
	org, err := c.service.GetOrganization(r.Context(), r.PathValue("organizationId"))
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	members, err := c.service.OrganizationMembers(r.Context(), org.Id)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, members)
}

// POST /api/organizations/{organizationId}/users
func (c *Controller) NewOrganizationUser(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	u, err := ParseNewUserReq(data)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	org, err := c.service.GetOrganization(r.Context(), r.PathValue("organizationId"))
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	member, err := c.service.AddUser(r.Context(), org.Id, u)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, MessageResponse{Message: MsgUserAdded, User: &member})
}

// APINotFound answers unknown routes under /api/.
func (c *Controller) APINotFound(w http.ResponseWriter, r *http.Request) {
	c.errorResponse(w, http.StatusNotFound, "page not found")
}
