package apperrors

import (
	"net/http"
	"strconv"

	"arcadeportal.io/infrastructure/logger"
	server_response "arcadeportal.io/infrastructure/serverResponse"
)

func NotFoundError(ctx interface{}, message string, responseCode *uint) {
	server_response.Responder.Respond(ctx, http.StatusNotFound, message, nil, nil, responseCode)
}

func ValidationFailedError(ctx interface{}, errMessages *[]error) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest, "Payload validation failed 🙄", nil, *errMessages, nil)
}

func AuthenticationError(ctx interface{}, message string, payload interface{}, responseCode *uint) {
	server_response.Responder.Respond(ctx, http.StatusUnauthorized, message, payload, nil, responseCode)
}

// TooManyRequestsError also sets Retry-After in whole seconds.
func TooManyRequestsError(ctx interface{}, message string, retryAfterSeconds int, payload interface{}, responseCode *uint) {
	if header, ok := ctx.(interface{ Header(key, value string) }); ok && retryAfterSeconds > 0 {
		header.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	server_response.Responder.Respond(ctx, http.StatusTooManyRequests, message, payload, nil, responseCode)
}

func ErrorProcessingPayload(ctx interface{}) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest, "Abnormal payload passed 🤨", nil, nil, nil)
}

func FatalServerError(ctx interface{}, err error, message string, responseCode *uint) {
	if err != nil {
		logger.Error("request failed with a server error", logger.LoggerOptions{Key: "error", Data: err.Error()})
	}
	if message == "" {
		message = "Omo! Our service is temporarily down 😢. Our team is working to fix it. Please check back later."
	}
	server_response.Responder.Respond(ctx, http.StatusInternalServerError, message, nil, nil, responseCode)
}

func ClientError(ctx interface{}, msg string, errs []error, responseCode *uint) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest, msg, nil, errs, responseCode)
}
