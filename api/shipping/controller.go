// Package shipping HTTP surface of the rate calculator
package shipping

import (
	"posimarket/api/ctxutil"
	"posimarket/api/response"
	shippingapp "posimarket/application/shipping"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	shippingService *shippingapp.ApplicationService
}

func NewController(shippingService *shippingapp.ApplicationService) *Controller {
	return &Controller{shippingService: shippingService}
}

func (c *Controller) RegisterRoutes(router gin.IRoutes) {
	router.POST("/shipping/quotes", c.Quote)
}

// Quote options per seller for the given items, or for the caller's cart when
// no items are sent
// POST /api/v1/shipping/quotes
func (c *Controller) Quote(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req shippingapp.QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	quote, err := c.shippingService.QuoteCart(ctx.Request.Context(), actor.UserID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, quote, "shipping quoted")
}
