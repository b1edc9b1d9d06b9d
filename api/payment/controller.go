// Package payment HTTP surface of order payments
package payment

import (
	"net/http"

	"posimarket/api/ctxutil"
	"posimarket/api/response"
	paymentapp "posimarket/application/payment"
	"posimarket/domain/payment"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	paymentService *paymentapp.ApplicationService
}

func NewController(paymentService *paymentapp.ApplicationService) *Controller {
	return &Controller{paymentService: paymentService}
}

func (c *Controller) RegisterRoutes(router gin.IRoutes) {
	router.POST("/orders/:id/payments", c.Submit)
	router.GET("/orders/:id/payments", c.Get)
}

// Submit charges the order total. An approved or pending charge answers 201 and
// 202 respectively; a rejection is still a 201 with status REJECTED so the
// client can retry.
// POST /api/v1/orders/:id/payments
func (c *Controller) Submit(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req paymentapp.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	p, err := c.paymentService.Submit(ctx.Request.Context(), ctx.Param("id"), actor, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	if p.Status == string(payment.StatusPending) {
		ctx.JSON(http.StatusAccepted, &response.Response{
			Success:   true,
			Data:      p,
			Message:   "payment pending",
			Code:      http.StatusAccepted,
			RequestID: response.GetRequestID(ctx),
		})
		return
	}
	response.HandleCreated(ctx, p, "payment processed")
}

// Get GET /api/v1/orders/:id/payments
func (c *Controller) Get(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	p, err := c.paymentService.Get(ctx.Request.Context(), ctx.Param("id"), actor)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "payment retrieved")
}
