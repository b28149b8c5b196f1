package httpkit

import (
	"net/http"

	"leadchat_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// DomainError maps an apperr to its HTTP status. Unknown errors become a
// generic 500 so collaborator error text never reaches the client.
func DomainError(c *gin.Context, err error) {
	if e, ok := err.(*apperr.Error); ok {
		Error(c, e.HTTPStatus(), e.Message, nil)
		return
	}
	Error(c, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
}
