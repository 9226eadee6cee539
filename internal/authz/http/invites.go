package http

import (
	"encoding/json"
	"net/http"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/classhubhq/classhub/internal/authz/service"
	"github.com/classhubhq/classhub/pkg/httpx"
	"github.com/classhubhq/classhub/pkg/idx"
	"github.com/classhubhq/classhub/pkg/orgsdk"
)

type InvitesHandler struct {
	InviteService *service.InviteService
}

func invitationResponse(inv domain.Invitation) orgsdk.InvitationResponse {
	return orgsdk.InvitationResponse{
		ID:        inv.ID,
		TenantID:  inv.TenantID,
		Email:     inv.Email,
		Role:      inv.Role,
		Status:    string(inv.Status),
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
}

// HandleCreate godoc
//
//	@Summary		Invite Member
//	@Description	Offer membership at a role to an email address. A notification email is sent best effort. Requires the invitation:create grant.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			tenantID	path		string				true	"Tenant ID"
//	@Param			request		body		orgsdk.InviteRequest	true	"Invitation"
//	@Success		201			{object}	orgsdk.InvitationResponse
//	@Failure		400			{object}	orgsdk.ErrorResponse
//	@Failure		403			{object}	orgsdk.ErrorResponse
//	@Failure		409			{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/invitations [post].
func (h *InvitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	var req orgsdk.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	inv, err := h.InviteService.Invite(r.Context(), identity.UserID, r.PathValue("tenantID"), req.Email, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, invitationResponse(inv))
}

// HandleList godoc
//
//	@Summary		List Invitations
//	@Description	List every invitation of the tenant, all statuses, newest first. Requires the invitation:read grant.
//	@Tags			Invitations
//	@Produce		json
//	@Param			tenantID	path		string	true	"Tenant ID"
//	@Success		200			{object}	orgsdk.InvitationListResponse
//	@Failure		403			{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/invitations [get].
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	invites, err := h.InviteService.List(r.Context(), identity.UserID, r.PathValue("tenantID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := orgsdk.InvitationListResponse{Invitations: make([]orgsdk.InvitationResponse, 0, len(invites))}
	for _, inv := range invites {
		resp := invitationResponse(inv.Invitation)
		resp.InviterName = inv.InviterName
		out.Invitations = append(out.Invitations, resp)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCancel godoc
//
//	@Summary		Cancel Invitation
//	@Description	Withdraw a pending invitation. Requires the invitation:delete grant.
//	@Tags			Invitations
//	@Param			tenantID		path	string	true	"Tenant ID"
//	@Param			invitationID	path	string	true	"Invitation ID"
//	@Success		204
//	@Failure		403	{object}	orgsdk.ErrorResponse
//	@Failure		404	{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/invitations/{invitationID} [delete].
func (h *InvitesHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	err := h.InviteService.Cancel(r.Context(), identity.UserID, r.PathValue("tenantID"), r.PathValue("invitationID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAccept godoc
//
//	@Summary		Accept Invitation
//	@Description	Redeem an invitation addressed to the caller's session email. No prior membership is needed.
//	@Tags			Invitations
//	@Produce		json
//	@Param			invitationID	path		string	true	"Invitation ID"
//	@Success		200				{object}	orgsdk.MembershipResponse
//	@Failure		400				{object}	orgsdk.ErrorResponse
//	@Failure		401				{object}	orgsdk.ErrorResponse
//	@Failure		403				{object}	orgsdk.ErrorResponse
//	@Failure		404				{object}	orgsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/invitations/{invitationID}/accept [post].
func (h *InvitesHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	// The accept route is the one surface people paste IDs into, so reject
	// malformed ones before touching the store.
	invitationID, err := idx.Parse(r.PathValue("invitationID"))
	if err != nil {
		writeBadRequest(w, "malformed invitation id")
		return
	}

	m, err := h.InviteService.Accept(r.Context(), invitationID.String(), identity.UserID, identity.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, membershipResponse(m))
}
