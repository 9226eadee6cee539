package http

import (
	"encoding/json"
	"net/http"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/classhubhq/classhub/internal/authz/service"
	"github.com/classhubhq/classhub/pkg/httpx"
	"github.com/classhubhq/classhub/pkg/orgsdk"
)

type RolesHandler struct {
	RoleService *service.RoleService
}

func grantsFromPayload(in []orgsdk.GrantPayload) []domain.Grant {
	out := make([]domain.Grant, 0, len(in))
	for _, g := range in {
		out = append(out, domain.Grant{Resource: g.Resource, Actions: g.Actions})
	}
	return out
}

func roleResponse(r domain.RoleWithGrants) orgsdk.RoleResponse {
	out := orgsdk.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Kind:        string(r.Kind),
		Description: r.Description,
		Grants:      make([]orgsdk.GrantPayload, 0, len(r.Grants)),
	}
	for _, g := range r.Grants {
		out.Grants = append(out.Grants, orgsdk.GrantPayload{Resource: g.Resource, Actions: g.Actions})
	}
	return out
}

// HandleCreate godoc
//
//	@Summary		Create Role
//	@Description	Add a custom role with its initial grants. Requires the role:create grant.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Param			tenantID	path		string					true	"Tenant ID"
//	@Param			request		body		orgsdk.CreateRoleRequest	true	"Role to create"
//	@Success		201			{object}	orgsdk.RoleResponse
//	@Failure		400			{object}	orgsdk.ErrorResponse
//	@Failure		403			{object}	orgsdk.ErrorResponse
//	@Failure		409			{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/roles [post].
func (h *RolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	var req orgsdk.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	role, err := h.RoleService.CreateRole(
		r.Context(), identity.UserID, r.PathValue("tenantID"),
		req.Name, req.Description, grantsFromPayload(req.Grants),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, roleResponse(role))
}

// HandleList godoc
//
//	@Summary		List Roles
//	@Description	List every role of the tenant with its grants. Requires the role:read grant.
//	@Tags			Roles
//	@Produce		json
//	@Param			tenantID	path		string	true	"Tenant ID"
//	@Success		200			{object}	orgsdk.RoleListResponse
//	@Failure		403			{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/roles [get].
func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	roles, err := h.RoleService.ListRoles(r.Context(), identity.UserID, r.PathValue("tenantID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := orgsdk.RoleListResponse{Roles: make([]orgsdk.RoleResponse, 0, len(roles))}
	for _, role := range roles {
		out.Roles = append(out.Roles, roleResponse(role))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get Role
//	@Description	Fetch one role with its grants. Requires the role:read grant.
//	@Tags			Roles
//	@Produce		json
//	@Param			tenantID	path		string	true	"Tenant ID"
//	@Param			roleID		path		string	true	"Role ID"
//	@Success		200			{object}	orgsdk.RoleResponse
//	@Failure		404			{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/roles/{roleID} [get].
func (h *RolesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	role, err := h.RoleService.GetRole(r.Context(), identity.UserID, r.PathValue("tenantID"), r.PathValue("roleID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, roleResponse(role))
}

// HandleUpdatePermissions godoc
//
//	@Summary		Replace Role Permissions
//	@Description	Replace the role's entire grant set atomically. Requires the role:update grant.
//	@Tags			Roles
//	@Accept			json
//	@Param			tenantID	path	string							true	"Tenant ID"
//	@Param			roleID		path	string							true	"Role ID"
//	@Param			request		body	orgsdk.UpdatePermissionsRequest	true	"New grant set"
//	@Success		204
//	@Failure		400	{object}	orgsdk.ErrorResponse
//	@Failure		403	{object}	orgsdk.ErrorResponse
//	@Failure		404	{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/roles/{roleID}/permissions [put].
func (h *RolesHandler) HandleUpdatePermissions(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	var req orgsdk.UpdatePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	err := h.RoleService.UpdatePermissions(
		r.Context(), identity.UserID, r.PathValue("tenantID"), r.PathValue("roleID"),
		grantsFromPayload(req.Grants),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete godoc
//
//	@Summary		Delete Role
//	@Description	Remove a custom role and its grants. System roles refuse. Requires the role:delete grant.
//	@Tags			Roles
//	@Param			tenantID	path	string	true	"Tenant ID"
//	@Param			roleID		path	string	true	"Role ID"
//	@Success		204
//	@Failure		403	{object}	orgsdk.ErrorResponse
//	@Failure		404	{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/roles/{roleID} [delete].
func (h *RolesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	if err := h.RoleService.DeleteRole(r.Context(), identity.UserID, r.PathValue("tenantID"), r.PathValue("roleID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
