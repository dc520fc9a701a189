package controller

import (
	"context"
	"errors"
	"net/http"

	apperrors "arcadeportal.io/application/appErrors"
	"arcadeportal.io/application/constants"
	"arcadeportal.io/application/controller/dto"
	"arcadeportal.io/application/interfaces"
	"arcadeportal.io/application/services/faceauth"
	server_response "arcadeportal.io/infrastructure/serverResponse"
	"arcadeportal.io/infrastructure/validator"
)

// FaceAuthService is the set of operations the controller exposes over HTTP.
type FaceAuthService interface {
	Signup(ctx context.Context, identity string, embedding []float64) (*faceauth.SignupResult, error)
	Login(ctx context.Context, identity string, embedding []float64) (*faceauth.LoginResult, error)
	UpdateEmbedding(ctx context.Context, identity string, embedding []float64) (*faceauth.UpdateResult, error)
	Config() faceauth.Config
}

type FaceAuthController struct {
	service    FaceAuthService
	ledgerMode func() string
}

func NewFaceAuthController(service FaceAuthService, ledgerMode func() string) *FaceAuthController {
	return &FaceAuthController{service: service, ledgerMode: ledgerMode}
}

func (c *FaceAuthController) Signup(ctx *interfaces.ApplicationContext[dto.FaceAuthDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	result, err := c.service.Signup(ctx.Context(), ctx.Body.Email, ctx.Body.Embedding)
	if err != nil {
		c.respondWithError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, result.Message, dto.SignupResponse{
		Status: result.Status,
	}, nil, &constants.FACE_AUTH_CONFIGURED)
}

func (c *FaceAuthController) Login(ctx *interfaces.ApplicationContext[dto.FaceAuthDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	result, err := c.service.Login(ctx.Context(), ctx.Body.Email, ctx.Body.Embedding)
	if err != nil {
		c.respondWithError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, result.Message, dto.LoginResponse{
		Verified:    result.Verified,
		Similarity:  result.Similarity,
		Credentials: result.Credentials,
	}, nil, &constants.FACE_AUTH_VERIFIED)
}

func (c *FaceAuthController) Update(ctx *interfaces.ApplicationContext[dto.FaceAuthDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	result, err := c.service.UpdateEmbedding(ctx.Context(), ctx.Body.Email, ctx.Body.Embedding)
	if err != nil {
		c.respondWithError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, result.Message, dto.UpdateResponse{
		Success: result.Success,
	}, nil, &constants.FACE_AUTH_UPDATED)
}

func (c *FaceAuthController) Health(ctx *interfaces.ApplicationContext[any]) {
	config := c.service.Config()
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "face auth is up", dto.HealthResponse{
		LedgerMode:          c.ledgerMode(),
		SimilarityThreshold: config.SimilarityThreshold,
		Dimensionality:      config.Dimensionality,
	}, nil, nil)
}

func (c *FaceAuthController) respondWithError(ctx interface{}, err error) {
	var faErr *faceauth.Error
	if !errors.As(err, &faErr) {
		apperrors.FatalServerError(ctx, err, "", nil)
		return
	}
	switch faErr.Kind {
	case faceauth.InvalidEmbedding:
		apperrors.ClientError(ctx, faErr.Message, nil, &constants.FACE_INVALID_EMBEDDING)
	case faceauth.AlreadyConfigured:
		apperrors.ClientError(ctx, faErr.Message, nil, &constants.FACE_AUTH_ALREADY_CONFIGURED)
	case faceauth.IdentityNotFound:
		apperrors.NotFoundError(ctx, faErr.Message, &constants.FACE_ACCOUNT_NOT_FOUND)
	case faceauth.NotConfigured:
		apperrors.NotFoundError(ctx, faErr.Message, &constants.FACE_AUTH_NOT_CONFIGURED)
	case faceauth.VerificationFailed:
		apperrors.AuthenticationError(ctx, faErr.Message, dto.LoginResponse{
			Verified:          false,
			Similarity:        faErr.Similarity,
			AttemptsRemaining: faErr.AttemptsLeft,
		}, &constants.FACE_VERIFICATION_FAILED)
	case faceauth.LockedOut:
		minutes := faErr.RetryAfterMinutes()
		apperrors.TooManyRequestsError(ctx, faErr.Message, minutes*60, dto.LockedOutResponse{
			RetryAfterMinutes: minutes,
		}, &constants.FACE_AUTH_LOCKED_OUT)
	case faceauth.SessionIssuanceFailed:
		apperrors.FatalServerError(ctx, faErr, faErr.Message, &constants.FACE_SESSION_ISSUANCE_FAILED)
	default:
		// Internal carries a generic message; the cause was logged by the service.
		apperrors.FatalServerError(ctx, nil, faErr.Message, nil)
	}
}
