// Package controller holds helpers shared by the admin and candidate HTTP
// handlers.
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/service"
	"github.com/rs/zerolog/log"
)

// ParseID reads a positive numeric path parameter, writing a 400 on failure.
func ParseID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// BindJSON binds the request body, writing a 400 with the binding error on
// failure.
func BindJSON(ctx *gin.Context, req interface{}, op string) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return false
	}
	return true
}

func statusFor(code service.ErrorCode) int {
	switch code {
	case service.ErrorNotFound, service.ErrorUnavailable:
		return http.StatusNotFound
	case service.ErrorValidationFailed:
		return http.StatusBadRequest
	case service.ErrorForbidden:
		return http.StatusForbidden
	case service.ErrorExpired:
		return http.StatusGone
	case service.ErrorDelivery:
		return http.StatusBadGateway
	case service.ErrorAIUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// RespondError maps service errors onto HTTP responses. Unexpected errors
// are logged and answered with a generic 500.
func RespondError(ctx *gin.Context, err error, op string) {
	if svcErr, ok := service.AsServiceError(err); ok {
		ctx.JSON(statusFor(svcErr.Code), dto.ErrorResponse{Message: svcErr.Message})
		return
	}
	log.Error().Err(err).Str("op", op).Msg("Unexpected service error")
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
}
