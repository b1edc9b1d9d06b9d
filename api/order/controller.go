/*
Package order order HTTP endpoints

Bind failures go through response.HandleBindError; service errors through
response.HandleAppError, which maps the error code to the HTTP status.
Orders the caller may not see answer 404, never 403.
*/
package order

import (
	"posimarket/api/ctxutil"
	"posimarket/api/response"
	orderapp "posimarket/application/order"

	"github.com/gin-gonic/gin"
)

// Controller order queries and status changes
type Controller struct {
	orderService *orderapp.ApplicationService
}

func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes order routes; the group must authenticate the caller
func (c *Controller) RegisterRoutes(router gin.IRoutes) {
	router.GET("/orders", c.ListBuyerOrders)
	router.GET("/orders/:id", c.GetOrder)
	router.POST("/orders/:id/status", c.Transition)
	router.GET("/seller/orders", c.ListSellerOrders)
}

// GetOrder GET /api/v1/orders/:id
//
// A parent order comes with the sub-orders the caller may see.
func (c *Controller) GetOrder(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	o, err := c.orderService.Get(ctx.Request.Context(), ctx.Param("id"), actor)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "order retrieved")
}

// ListBuyerOrders parent orders of the caller, newest first
// GET /api/v1/orders
func (c *Controller) ListBuyerOrders(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	orders, err := c.orderService.ListBuyerOrders(ctx.Request.Context(), actor.UserID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved")
}

// ListSellerOrders sub-orders the caller sells
// GET /api/v1/seller/orders
func (c *Controller) ListSellerOrders(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	orders, err := c.orderService.ListSellerOrders(ctx.Request.Context(), actor.UserID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved")
}

// Transition moves the order; a parent cascades to its sub-orders
// POST /api/v1/orders/:id/status
func (c *Controller) Transition(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req orderapp.TransitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	o, err := c.orderService.Transition(ctx.Request.Context(), ctx.Param("id"), actor, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "order status updated")
}
