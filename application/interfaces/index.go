package interfaces

import (
	"context"
	"net/http"

	"arcadeportal.io/application/services/faceauth"
	"github.com/gin-gonic/gin"
)

// ApplicationContext is what a route hands to a controller: the gin context,
// the decoded body and the request details the middleware resolved.
type ApplicationContext[T any] struct {
	Ctx        *gin.Context
	Body       *T
	Keys       map[string]any
	Header     http.Header
	DeviceID   string
	UserAgent  string
	DeviceName string
	ClientIP   string
}

func (ac *ApplicationContext[T]) GetHeader(name string) *string {
	value := ac.Header.Get(name)
	if value == "" {
		return nil
	}
	return &value
}

// Context is the request context carrying the client details for auditing.
func (ac *ApplicationContext[T]) Context() context.Context {
	ctx := context.Background()
	if ac.Ctx != nil && ac.Ctx.Request != nil {
		ctx = ac.Ctx.Request.Context()
	}
	return faceauth.WithRequestMeta(ctx, faceauth.RequestMeta{
		ClientIP:  ac.ClientIP,
		UserAgent: ac.UserAgent,
		DeviceID:  ac.DeviceID,
	})
}
