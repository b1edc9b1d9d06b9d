// Package cart HTTP surface of the stock reservation ledger
package cart

import (
	"posimarket/api/ctxutil"
	"posimarket/api/response"
	cartapp "posimarket/application/cart"

	"github.com/gin-gonic/gin"
)

// Controller cart and availability endpoints
type Controller struct {
	cartService *cartapp.ApplicationService
}

func NewController(cartService *cartapp.ApplicationService) *Controller {
	return &Controller{cartService: cartService}
}

// RegisterRoutes cart routes; the group must authenticate the caller
func (c *Controller) RegisterRoutes(router gin.IRoutes) {
	router.GET("/cart", c.GetCart)
	router.POST("/cart/items", c.Reserve)
	router.PUT("/cart/items/:productId", c.UpdateQuantity)
	router.DELETE("/cart/items/:productId", c.Remove)
}

// RegisterPublicRoutes routes open to anonymous callers
func (c *Controller) RegisterPublicRoutes(router gin.IRoutes) {
	router.GET("/products/:id/availability", c.Availability)
}

// Reserve adds a product to the cart and holds the units
// POST /api/v1/cart/items
func (c *Controller) Reserve(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req cartapp.ReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	line, err := c.cartService.Reserve(ctx.Request.Context(), actor.UserID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, line, "product reserved")
}

// UpdateQuantity changes the quantity of a line already in the cart
// PUT /api/v1/cart/items/:productId
func (c *Controller) UpdateQuantity(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req cartapp.UpdateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	line, err := c.cartService.UpdateQuantity(ctx.Request.Context(), actor.UserID, ctx.Param("productId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, line, "reservation updated")
}

// Remove releases the hold
// DELETE /api/v1/cart/items/:productId
func (c *Controller) Remove(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	if err := c.cartService.Remove(ctx.Request.Context(), actor.UserID, ctx.Param("productId")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}

// GetCart GET /api/v1/cart
func (c *Controller) GetCart(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	cart, err := c.cartService.ListCart(ctx.Request.Context(), actor.UserID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cart, "cart retrieved")
}

// Availability units not held by any active reservation
// GET /api/v1/products/:id/availability
func (c *Controller) Availability(ctx *gin.Context) {
	availability, err := c.cartService.AvailableStock(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, availability, "availability retrieved")
}
