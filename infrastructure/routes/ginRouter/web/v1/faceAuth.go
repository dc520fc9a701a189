package routev1

import (
	apperrors "arcadeportal.io/application/appErrors"
	"arcadeportal.io/application/controller"
	"arcadeportal.io/application/controller/dto"
	"arcadeportal.io/application/interfaces"
	"arcadeportal.io/infrastructure/ratelimit"
	"github.com/gin-gonic/gin"
)

// FaceAuthRouter mounts the face auth endpoints. loginRate caps login
// requests per second per client IP.
func FaceAuthRouter(router *gin.RouterGroup, faceAuthController *controller.FaceAuthController, loginRate float64) {
	faceAuthRouter := router.Group("/face-auth")
	{
		faceAuthRouter.POST("/signup", func(ctx *gin.Context) {
			appContext, body, ok := bindFaceAuthBody(ctx)
			if !ok {
				return
			}
			faceAuthController.Signup(withBody(appContext, body))
		})

		faceAuthRouter.POST("/login", ratelimit.TokenBucketPerIP(loginRate), func(ctx *gin.Context) {
			appContext, body, ok := bindFaceAuthBody(ctx)
			if !ok {
				return
			}
			faceAuthController.Login(withBody(appContext, body))
		})

		faceAuthRouter.PUT("/update", func(ctx *gin.Context) {
			appContext, body, ok := bindFaceAuthBody(ctx)
			if !ok {
				return
			}
			faceAuthController.Update(withBody(appContext, body))
		})

		faceAuthRouter.GET("/health", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			faceAuthController.Health(appContext)
		})
	}
}

func bindFaceAuthBody(ctx *gin.Context) (*interfaces.ApplicationContext[any], *dto.FaceAuthDTO, bool) {
	appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
	var body dto.FaceAuthDTO
	if err := ctx.ShouldBindJSON(&body); err != nil {
		apperrors.ErrorProcessingPayload(ctx)
		return nil, nil, false
	}
	return appContext, &body, true
}

func withBody(appContext *interfaces.ApplicationContext[any], body *dto.FaceAuthDTO) *interfaces.ApplicationContext[dto.FaceAuthDTO] {
	return &interfaces.ApplicationContext[dto.FaceAuthDTO]{
		Ctx:        appContext.Ctx,
		Body:       body,
		Keys:       appContext.Keys,
		Header:     appContext.Header,
		DeviceID:   appContext.DeviceID,
		UserAgent:  appContext.UserAgent,
		DeviceName: appContext.DeviceName,
		ClientIP:   appContext.ClientIP,
	}
}
