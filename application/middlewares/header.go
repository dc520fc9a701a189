package middlewares

import (
	"arcadeportal.io/application/interfaces"
	"arcadeportal.io/infrastructure/useragent"
)

// RequestMetaMiddleware resolves the client details recorded with every face
// auth outcome. Missing headers are tolerated and recorded as empty.
func RequestMetaMiddleware(ctx *interfaces.ApplicationContext[any], clientIP string) *interfaces.ApplicationContext[any] {
	ctx.ClientIP = clientIP
	if agent := ctx.GetHeader("User-Agent"); agent != nil {
		ctx.UserAgent = *agent
		ctx.DeviceName = useragent.ParseUserAgent(*agent).DeviceName()
	}
	if deviceID := ctx.GetHeader("X-Device-Id"); deviceID != nil {
		ctx.DeviceID = *deviceID
	}
	return ctx
}
