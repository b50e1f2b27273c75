package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
	"github.com/isms-esp/diploma-registry/internal/pkg/ratelimit"
)

// EventRecorder matches the verification event append used when a
// request is throttled.
type EventRecorder interface {
	Append(ctx context.Context, diplomaID *int64, sourceIP, outcome string) error
}

// RateLimit throttles public verification endpoints per source IP.
// A throttled request is itself recorded as a failed verification.
func RateLimit(limiter *ratelimit.Limiter, events EventRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			// A broken limiter backend must not take verification down.
			logger.Error().Err(err).Str("ip", ip).Msg("Rate limiter unavailable, letting request through")
			c.Next()
			return
		}

		if !allowed {
			logger.Warn().Str("ip", ip).Msg("Verification rate limit exceeded")
			if events != nil {
				if err := events.Append(c.Request.Context(), nil, ip, models.VerificationFailed); err != nil {
					logger.Error().Err(err).Msg("Failed to record throttled verification")
				}
			}
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many verification requests")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// NoStore disables client and intermediary caching of verification
// responses so revocations are visible immediately.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
