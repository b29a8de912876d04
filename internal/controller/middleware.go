package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/Quokkas/internal/apperr"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/service"
)

const currentUserKey = "currentUser"

// RequireAuth validates the Authorization header and attaches the resolved
// user to the gin context.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing or invalid Authorization header"})
			return
		}

		user, err := authService.Verify(ctx.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		ctx.Set(currentUserKey, user)
		ctx.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(ctx *gin.Context) (*model.User, bool) {
	val, ok := ctx.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok
}

// RequestID tags every request with an id for log correlation.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set("requestID", id)
		ctx.Writer.Header().Set("X-Request-ID", id)
		ctx.Next()
	}
}

// respondError maps the apperr taxonomy onto HTTP status codes.
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrInvalidCredentials), errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	}
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
}
