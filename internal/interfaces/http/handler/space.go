package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/identity"
	domainidentity "github.com/homehub/backend/internal/domain/identity"
)

// SpaceHandler handles household space HTTP requests
type SpaceHandler struct {
	BaseHandler
	spaceService *identity.SpaceService
}

// NewSpaceHandler creates a new space handler
func NewSpaceHandler(spaceService *identity.SpaceService) *SpaceHandler {
	return &SpaceHandler{
		spaceService: spaceService,
	}
}

// CreateSpace godoc
// @Summary      Create a household space
// @Description  Create a space; the caller becomes its owner and a free subscription is attached
// @Tags         spaces
// @Accept       json
// @Produce      json
// @Param        request body CreateSpaceRequest true "Space details"
// @Success      201 {object} dto.Response{data=SpaceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces [post]
func (h *SpaceHandler) CreateSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.spaceService.CreateSpace(c.Request.Context(), identity.CreateSpaceInput{
		Name:     req.Name,
		Timezone: req.Timezone,
		Currency: req.Currency,
		OwnerID:  userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toSpaceResponse(info))
}

// ListSpaces godoc
// @Summary      List my spaces
// @Description  List all spaces the caller is a member of
// @Tags         spaces
// @Produce      json
// @Success      200 {object} dto.Response{data=[]SpaceRefResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces [get]
func (h *SpaceHandler) ListSpaces(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	refs, err := h.spaceService.ListSpaces(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSpaceRefResponses(refs))
}

// GetSpace godoc
// @Summary      Get a space
// @Description  Get the space's details; invite code is included for admins only
// @Tags         spaces
// @Produce      json
// @Param        id path string true "Space ID"
// @Success      200 {object} dto.Response{data=SpaceResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/{id} [get]
func (h *SpaceHandler) GetSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid space ID")
		return
	}

	info, err := h.spaceService.GetSpace(c.Request.Context(), spaceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSpaceResponse(info))
}

// UpdateSpace godoc
// @Summary      Update a space
// @Description  Update the space's name, avatar, timezone or currency
// @Tags         spaces
// @Accept       json
// @Produce      json
// @Param        id path string true "Space ID"
// @Param        request body UpdateSpaceRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=SpaceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/{id} [put]
func (h *SpaceHandler) UpdateSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid space ID")
		return
	}

	var req UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.spaceService.UpdateSpace(c.Request.Context(), identity.UpdateSpaceInput{
		SpaceID:   spaceID,
		ActorID:   userID,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Timezone:  req.Timezone,
		Currency:  req.Currency,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSpaceResponse(info))
}

// UpdateChoreSettings godoc
// @Summary      Update chore reward settings
// @Description  Replace the space's chore reward settings
// @Tags         spaces
// @Accept       json
// @Produce      json
// @Param        id path string true "Space ID"
// @Param        request body UpdateChoreSettingsRequest true "Reward settings"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/{id}/chore-settings [put]
func (h *SpaceHandler) UpdateChoreSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid space ID")
		return
	}

	var req UpdateChoreSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.spaceService.UpdateChoreSettings(c.Request.Context(), identity.UpdateChoreSettingsInput{
		SpaceID:  spaceID,
		ActorID:  userID,
		Settings: toChoreSettings(req),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Settings updated"})
}

// RegenerateInviteCode godoc
// @Summary      Regenerate invite code
// @Description  Replace the space's invite code; the old code stops working
// @Tags         spaces
// @Produce      json
// @Param        id path string true "Space ID"
// @Success      200 {object} dto.Response{data=InviteCodeResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/{id}/invite-code [post]
func (h *SpaceHandler) RegenerateInviteCode(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid space ID")
		return
	}

	code, err := h.spaceService.RegenerateInviteCode(c.Request.Context(), spaceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, InviteCodeResponse{InviteCode: code})
}

// JoinSpace godoc
// @Summary      Join a space
// @Description  Join a household space using its invite code
// @Tags         spaces
// @Accept       json
// @Produce      json
// @Param        request body JoinSpaceRequest true "Invite code"
// @Success      200 {object} dto.Response{data=SpaceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/join [post]
func (h *SpaceHandler) JoinSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req JoinSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.spaceService.JoinSpace(c.Request.Context(), identity.JoinSpaceInput{
		InviteCode: req.InviteCode,
		UserID:     userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSpaceResponse(info))
}

// ListMembers godoc
// @Summary      List space members
// @Description  List all members of the space with their profiles
// @Tags         spaces
// @Produce      json
// @Param        id path string true "Space ID"
// @Success      200 {object} dto.Response{data=[]MemberResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/{id}/members [get]
func (h *SpaceHandler) ListMembers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid space ID")
		return
	}

	members, err := h.spaceService.ListMembers(c.Request.Context(), spaceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toMemberResponses(members))
}

// ChangeMemberRole godoc
// @Summary      Change a member's role
// @Description  Promote or demote another member between admin and member
// @Tags         spaces
// @Accept       json
// @Produce      json
// @Param        id path string true "Space ID"
// @Param        userId path string true "User ID"
// @Param        request body ChangeMemberRoleRequest true "New role"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/{id}/members/{userId}/role [put]
func (h *SpaceHandler) ChangeMemberRole(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid space ID")
		return
	}
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req ChangeMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.spaceService.ChangeMemberRole(c.Request.Context(), identity.ChangeMemberRoleInput{
		SpaceID: spaceID,
		ActorID: actorID,
		UserID:  targetID,
		Role:    domainidentity.MemberRole(req.Role),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Role updated"})
}

// RemoveMember godoc
// @Summary      Remove a member
// @Description  Remove a member from the space, or leave by removing yourself
// @Tags         spaces
// @Produce      json
// @Param        id path string true "Space ID"
// @Param        userId path string true "User ID"
// @Success      204 "No Content"
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/{id}/members/{userId} [delete]
func (h *SpaceHandler) RemoveMember(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid space ID")
		return
	}
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	err = h.spaceService.RemoveMember(c.Request.Context(), identity.RemoveMemberInput{
		SpaceID: spaceID,
		ActorID: actorID,
		UserID:  targetID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// TransferOwnership godoc
// @Summary      Transfer ownership
// @Description  Transfer space ownership to another member; the previous owner becomes an admin
// @Tags         spaces
// @Accept       json
// @Produce      json
// @Param        id path string true "Space ID"
// @Param        request body TransferOwnershipRequest true "New owner"
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/{id}/transfer-ownership [post]
func (h *SpaceHandler) TransferOwnership(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid space ID")
		return
	}

	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.spaceService.TransferOwnership(c.Request.Context(), identity.TransferOwnershipInput{
		SpaceID:    spaceID,
		ActorID:    actorID,
		NewOwnerID: req.NewOwnerID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Ownership transferred"})
}

// ArchiveSpace godoc
// @Summary      Archive a space
// @Description  Soft-delete the space; only the owner may archive
// @Tags         spaces
// @Produce      json
// @Param        id path string true "Space ID"
// @Success      204 "No Content"
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /spaces/{id} [delete]
func (h *SpaceHandler) ArchiveSpace(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid space ID")
		return
	}

	if err := h.spaceService.ArchiveSpace(c.Request.Context(), spaceID, actorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
