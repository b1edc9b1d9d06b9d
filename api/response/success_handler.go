package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleSuccess 200 OK
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: getRequestID(c),
	})
}

// HandleCreated 201 Created
func HandleCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: getRequestID(c),
	})
}

func HandleNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
