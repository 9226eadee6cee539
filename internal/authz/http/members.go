package http

import (
	"encoding/json"
	"net/http"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/classhubhq/classhub/internal/authz/service"
	"github.com/classhubhq/classhub/pkg/httpx"
	"github.com/classhubhq/classhub/pkg/orgsdk"
)

type MembersHandler struct {
	MemberService *service.MemberService
}

func membershipResponse(m domain.Membership) orgsdk.MembershipResponse {
	return orgsdk.MembershipResponse{
		ID:       m.ID,
		TenantID: m.TenantID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

// HandleList godoc
//
//	@Summary		List Members
//	@Description	List the tenant roster joined with the user directory. Requires the member:read grant.
//	@Tags			Members
//	@Produce		json
//	@Param			tenantID	path		string	true	"Tenant ID"
//	@Success		200			{object}	orgsdk.MemberListResponse
//	@Failure		403			{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/members [get].
func (h *MembersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	members, err := h.MemberService.ListMembers(r.Context(), identity.UserID, r.PathValue("tenantID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := orgsdk.MemberListResponse{Members: make([]orgsdk.MemberResponse, 0, len(members))}
	for _, m := range members {
		out.Members = append(out.Members, orgsdk.MemberResponse{
			ID:          m.ID,
			UserID:      m.UserID,
			Email:       m.Email,
			DisplayName: m.DisplayName,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleChangeRole godoc
//
//	@Summary		Change Member Role
//	@Description	Assign a different role to a member. Demoting the last owner is refused. Requires the member:update grant.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Param			tenantID	path		string					true	"Tenant ID"
//	@Param			memberID	path		string					true	"Membership ID"
//	@Param			request		body		orgsdk.ChangeRoleRequest	true	"New role"
//	@Success		200			{object}	orgsdk.MembershipResponse
//	@Failure		400			{object}	orgsdk.ErrorResponse
//	@Failure		403			{object}	orgsdk.ErrorResponse
//	@Failure		404			{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/members/{memberID} [patch].
func (h *MembersHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	var req orgsdk.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := h.MemberService.ChangeMemberRole(
		r.Context(), identity.UserID, r.PathValue("tenantID"), r.PathValue("memberID"), req.Role,
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, membershipResponse(updated))
}

// HandleRemove godoc
//
//	@Summary		Remove Member
//	@Description	Delete a membership. Removing the last owner is refused. Requires the member:delete grant.
//	@Tags			Members
//	@Param			tenantID	path	string	true	"Tenant ID"
//	@Param			memberID	path	string	true	"Membership ID"
//	@Success		204
//	@Failure		403	{object}	orgsdk.ErrorResponse
//	@Failure		404	{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/members/{memberID} [delete].
func (h *MembersHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	if err := h.MemberService.RemoveMember(r.Context(), identity.UserID, r.PathValue("tenantID"), r.PathValue("memberID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
