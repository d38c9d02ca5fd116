package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ocexchange/internal/adapter/marketdata"
	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	pkgAuth "github.com/polkiloo/ocexchange/internal/pkg/auth"
	"github.com/polkiloo/ocexchange/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) string {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrInvalidOperation),
		errors.Is(err, domainErrors.ErrInvalidBalanceKey),
		errors.Is(err, domainErrors.ErrInvalidOrder),
		errors.Is(err, domainErrors.ErrInvalidTransaction),
		errors.Is(err, domainErrors.ErrInvalidVerification):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInvalidCredentials),
		errors.Is(err, pkgAuth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrInsufficientAvailableBalance),
		errors.Is(err, domainErrors.ErrInsufficientLockedBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, domainErrors.ErrAlreadyExists),
		errors.Is(err, domainErrors.ErrOrderNotCancellable):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrNotFound),
		errors.Is(err, domainErrors.ErrCoinNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, errorResponse{Error: http.StatusText(status)})
		return
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

// respondMarketError additionally handles upstream rate limiting and failures.
func respondMarketError(c *gin.Context, err error) {
	var tooMany marketdata.TooManyRequestsError
	switch {
	case errors.As(err, &tooMany):
		seconds := int(math.Ceil(tooMany.RetryAfter.Seconds()))
		if seconds > 0 {
			c.Header("Retry-After", strconv.Itoa(seconds))
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrCoinNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadGateway, errorResponse{Error: http.StatusText(http.StatusBadGateway)})
	}
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
