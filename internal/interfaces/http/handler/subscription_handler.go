package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/billing"
)

// SubscriptionHandler handles subscription and checkout HTTP requests
type SubscriptionHandler struct {
	BaseHandler
	billingService *appbilling.BillingService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(billingService *appbilling.BillingService) *SubscriptionHandler {
	return &SubscriptionHandler{
		billingService: billingService,
	}
}

// checkoutRequest selects the plan to upgrade to
type checkoutRequest struct {
	Plan billing.Plan `json:"plan" binding:"required"`
}

// GetSubscription godoc
// @Summary      Get the space's subscription
// @Description  Get the current plan, status, renewal date, and feature limits
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=billing.SubscriptionInfo}
// @Security     BearerAuth
// @Router       /billing/subscription [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	info, err := h.billingService.GetSubscription(c.Request.Context(), spaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// StartCheckout godoc
// @Summary      Start a plan checkout
// @Description  Create a provider-hosted checkout session for the chosen plan and return its URL
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body checkoutRequest true "Target plan"
// @Success      200 {object} dto.Response{data=billing.CheckoutResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/checkout [post]
func (h *SubscriptionHandler) StartCheckout(c *gin.Context) {
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

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.billingService.StartCheckout(c.Request.Context(), appbilling.CheckoutInput{
		SpaceID: spaceID,
		UserID:  userID,
		Plan:    req.Plan,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// OpenBillingPortal godoc
// @Summary      Open the billing portal
// @Description  Get a provider-hosted portal URL for managing payment methods and invoices
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=billing.PortalResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/portal [post]
func (h *SubscriptionHandler) OpenBillingPortal(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	result, err := h.billingService.OpenBillingPortal(c.Request.Context(), spaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CancelSubscription godoc
// @Summary      Cancel the subscription
// @Description  Cancel at period end; the space keeps paid features until then
// @Tags         billing
// @Produce      json
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/subscription [delete]
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	if err := h.billingService.CancelSubscription(c.Request.Context(), spaceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
