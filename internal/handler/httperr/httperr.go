// Package httperr defines the JSON error envelope every endpoint answers
// with.
package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the error body sent to clients. Detail carries structured
// extras when an error has them, such as the conflicting booking id on a
// date conflict.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithError writes the envelope and attaches the original error to the
// gin context so the error middleware can log it with the request.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
