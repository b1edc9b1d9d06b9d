// Package checkout HTTP surface of multi-vendor order placement
package checkout

import (
	"posimarket/api/ctxutil"
	"posimarket/api/response"
	checkoutapp "posimarket/application/checkout"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	checkoutService *checkoutapp.ApplicationService
}

func NewController(checkoutService *checkoutapp.ApplicationService) *Controller {
	return &Controller{checkoutService: checkoutService}
}

func (c *Controller) RegisterRoutes(router gin.IRoutes) {
	router.POST("/orders", c.PlaceOrder)
}

// PlaceOrder splits the cart into one sub-order per seller under a parent order
// POST /api/v1/orders
func (c *Controller) PlaceOrder(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req checkoutapp.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	placed, err := c.checkoutService.PlaceOrder(ctx.Request.Context(), actor.UserID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, placed, "order placed")
}
