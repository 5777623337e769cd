package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/rewards"
)

// RewardsHandler handles points and reward catalog HTTP requests
type RewardsHandler struct {
	BaseHandler
	rewardsService *rewards.RewardsService
}

// NewRewardsHandler creates a new rewards handler
func NewRewardsHandler(rewardsService *rewards.RewardsService) *RewardsHandler {
	return &RewardsHandler{
		rewardsService: rewardsService,
	}
}

// GetMyAccount godoc
// @Summary      Get my points account
// @Description  Get the caller's points balance and streak state in the active space
// @Tags         rewards
// @Produce      json
// @Success      200 {object} dto.Response{data=rewards.AccountSummary}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /rewards/account [get]
func (h *RewardsHandler) GetMyAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	summary, err := h.rewardsService.GetSummary(c.Request.Context(), spaceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetMemberAccount godoc
// @Summary      Get a member's points account
// @Tags         rewards
// @Produce      json
// @Param        user_id path string true "Member user ID"
// @Success      200 {object} dto.Response{data=rewards.AccountSummary}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /rewards/accounts/{user_id} [get]
func (h *RewardsHandler) GetMemberAccount(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	summary, err := h.rewardsService.GetSummary(c.Request.Context(), spaceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetLeaderboard godoc
// @Summary      Points leaderboard
// @Description  List all member accounts in the space ordered by balance
// @Tags         rewards
// @Produce      json
// @Success      200 {object} dto.Response{data=[]rewards.AccountSummary}
// @Security     BearerAuth
// @Router       /rewards/leaderboard [get]
func (h *RewardsHandler) GetLeaderboard(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	board, err := h.rewardsService.GetLeaderboard(c.Request.Context(), spaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, board)
}

// ListTransactions godoc
// @Summary      List my point transactions
// @Description  Paginated point ledger for the caller, newest first
// @Tags         rewards
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]rewards.TransactionInfo}
// @Security     BearerAuth
// @Router       /rewards/transactions [get]
func (h *RewardsHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.rewardsService.ListTransactions(c.Request.Context(), spaceID, userID, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Transactions, result.Total, result.Page, result.PageSize)
}

// CreateRewardItem godoc
// @Summary      Create a reward item
// @Description  Add a redeemable reward to the space catalog
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Param        request body rewards.CreateRewardItemInput true "Reward details"
// @Success      201 {object} dto.Response{data=rewards.RewardItemInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /rewards/items [post]
func (h *RewardsHandler) CreateRewardItem(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input rewards.CreateRewardItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID

	info, err := h.rewardsService.CreateRewardItem(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// UpdateRewardItem godoc
// @Summary      Update a reward item
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Param        id path string true "Reward item ID"
// @Param        request body rewards.UpdateRewardItemInput true "Reward details"
// @Success      200 {object} dto.Response{data=rewards.RewardItemInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /rewards/items/{id} [put]
func (h *RewardsHandler) UpdateRewardItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reward item ID")
		return
	}

	var input rewards.UpdateRewardItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.ItemID = itemID

	info, err := h.rewardsService.UpdateRewardItem(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ListRewardItems godoc
// @Summary      List reward items
// @Description  List the space's reward catalog; active items only unless include_inactive is set
// @Tags         rewards
// @Produce      json
// @Param        include_inactive query bool false "Include deactivated items"
// @Success      200 {object} dto.Response{data=[]rewards.RewardItemInfo}
// @Security     BearerAuth
// @Router       /rewards/items [get]
func (h *RewardsHandler) ListRewardItems(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	includeInactive := c.Query("include_inactive") == "true"

	items, err := h.rewardsService.ListRewardItems(c.Request.Context(), spaceID, !includeInactive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// DeactivateRewardItem godoc
// @Summary      Deactivate a reward item
// @Description  Remove the item from the redeemable catalog; past redemptions keep their history
// @Tags         rewards
// @Produce      json
// @Param        id path string true "Reward item ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /rewards/items/{id} [delete]
func (h *RewardsHandler) DeactivateRewardItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reward item ID")
		return
	}

	if err := h.rewardsService.DeactivateRewardItem(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Redeem godoc
// @Summary      Redeem a reward
// @Description  Spend points on a catalog item; fails on insufficient balance
// @Tags         rewards
// @Produce      json
// @Param        id path string true "Reward item ID"
// @Success      200 {object} dto.Response{data=rewards.RedeemResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /rewards/items/{id}/redeem [post]
func (h *RewardsHandler) Redeem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reward item ID")
		return
	}

	result, err := h.rewardsService.Redeem(c.Request.Context(), rewards.RedeemInput{
		SpaceID: spaceID,
		UserID:  userID,
		ItemID:  itemID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Adjust godoc
// @Summary      Adjust a member's balance
// @Description  Manually credit or debit points with a reason; admin only
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Param        request body rewards.AdjustInput true "Adjustment details"
// @Success      200 {object} dto.Response{data=rewards.AccountSummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /rewards/adjust [post]
func (h *RewardsHandler) Adjust(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input rewards.AdjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID

	summary, err := h.rewardsService.Adjust(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
