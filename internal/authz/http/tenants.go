package http

import (
	"encoding/json"
	"net/http"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/classhubhq/classhub/internal/authz/service"
	"github.com/classhubhq/classhub/pkg/httpx"
	"github.com/classhubhq/classhub/pkg/orgsdk"
)

type TenantsHandler struct {
	TenantService *service.TenantService
}

func tenantResponse(t domain.Tenant) orgsdk.TenantResponse {
	return orgsdk.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Kind:      t.Kind,
		CreatedAt: t.CreatedAt,
	}
}

// HandleCreate godoc
//
//	@Summary		Create Tenant
//	@Description	Provision a tenant. The caller becomes the first owner and the system role catalog is seeded.
//	@Tags			Tenants
//	@Accept			json
//	@Produce		json
//	@Param			request	body		orgsdk.CreateTenantRequest	true	"Tenant to create"
//	@Success		201		{object}	orgsdk.TenantResponse
//	@Failure		400		{object}	orgsdk.ErrorResponse
//	@Failure		401		{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants [post].
func (h *TenantsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	var req orgsdk.CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	tenant, err := h.TenantService.CreateTenant(r.Context(), identity.UserID, req.Name, req.Kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, tenantResponse(tenant))
}

// HandleList godoc
//
//	@Summary		List Tenants
//	@Description	List the tenants the caller belongs to.
//	@Tags			Tenants
//	@Produce		json
//	@Success		200	{object}	orgsdk.TenantListResponse
//	@Failure		401	{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants [get].
func (h *TenantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	tenants, err := h.TenantService.ListTenants(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := orgsdk.TenantListResponse{Tenants: make([]orgsdk.TenantResponse, 0, len(tenants))}
	for _, t := range tenants {
		out.Tenants = append(out.Tenants, tenantResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get Tenant
//	@Description	Fetch one tenant. Requires membership.
//	@Tags			Tenants
//	@Produce		json
//	@Param			tenantID	path		string	true	"Tenant ID"
//	@Success		200			{object}	orgsdk.TenantResponse
//	@Failure		403			{object}	orgsdk.ErrorResponse
//	@Failure		404			{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID} [get].
func (h *TenantsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	tenant, err := h.TenantService.GetTenant(r.Context(), identity.UserID, r.PathValue("tenantID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tenantResponse(tenant))
}

// HandleDelete godoc
//
//	@Summary		Delete Tenant
//	@Description	Soft-delete a tenant. Requires the tenant:delete grant.
//	@Tags			Tenants
//	@Param			tenantID	path	string	true	"Tenant ID"
//	@Success		204
//	@Failure		403	{object}	orgsdk.ErrorResponse
//	@Failure		404	{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID} [delete].
func (h *TenantsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	if err := h.TenantService.SoftDeleteTenant(r.Context(), identity.UserID, r.PathValue("tenantID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
