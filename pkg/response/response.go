package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgErrors "task-intake-assistant/pkg/errors"
)

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		Success: true,
		Data:    data,
	}
}

// NewErrorResp builds the error envelope for err.
func NewErrorResp(err error) (int, Resp) {
	appErr := pkgErrors.As(err)
	return appErr.Status, Resp{
		Success: false,
		Error: &ErrorBody{
			Code:        string(appErr.Code),
			Message:     appErr.Message,
			UserMessage: appErr.UserMessage,
		},
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Created sends 201 JSON with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, NewOKResp(data))
}

// Error sends the error envelope with the status derived from err.
func Error(c *gin.Context, err error) {
	status, body := NewErrorResp(err)
	c.JSON(status, body)
}

// Abort sends the error envelope and stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, body := NewErrorResp(err)
	c.AbortWithStatusJSON(status, body)
}

// Unauthorized sends 401 response.
func Unauthorized(c *gin.Context) {
	Abort(c, pkgErrors.Unauthorized())
}
