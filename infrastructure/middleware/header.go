package middlewares

import (
	"arcadeportal.io/application/interfaces"
	"arcadeportal.io/application/middlewares"
	"github.com/gin-gonic/gin"
)

func RequestMetaMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appContext := middlewares.RequestMetaMiddleware(&interfaces.ApplicationContext[any]{
			Ctx:    ctx,
			Keys:   ctx.Keys,
			Header: ctx.Request.Header,
		}, ctx.ClientIP())
		ctx.Set("AppContext", appContext)
		ctx.Next()
	}
}
