package server

import (
	"context"
	"crypto/subtle"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/nasiya/internal/observability/context"
	overduedomain "github.com/smallbiznis/nasiya/internal/overdue/domain"
	"github.com/smallbiznis/nasiya/internal/scheduler"
	"go.uber.org/zap"
)

const (
	HeaderAPIKey   = "x-api-key"
	queryAPIKey    = "api_key"
	actorTypeCron  = "system"
	actorIDCron    = "cron"
	contextAuthKey = "auth_type"

	cronJobLockTTL = 5 * time.Minute
)

// CronKeyRequired accepts the configured key from the x-api-key header, a
// bearer token or the api_key query parameter.
func (s *Server) CronKeyRequired() gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(s.cfg.CronAPIKey))
	return func(c *gin.Context) {
		if len(expected) == 0 {
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		provided := cronKeyFromRequest(c)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := obscontext.WithActor(c.Request.Context(), actorTypeCron, actorIDCron)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextAuthKey, actorIDCron)
		c.Next()
	}
}

func cronKeyFromRequest(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader(HeaderAPIKey)); key != "" {
		return key
	}
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		parts := strings.Fields(header)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(c.Query(queryAPIKey))
}

// CronRateLimit throttles each client IP. Limiter errors fail open.
func (s *Server) CronRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.cronLimiter.Enabled() {
			c.Next()
			return
		}

		result, err := s.cronLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.log.Warn("cron rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			retry := int(math.Ceil(result.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(retry, 1)))
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// withJobLock runs fn under the lease the scheduler loop takes for the same
// job, so a triggered run never overlaps a scheduled one.
func (s *Server) withJobLock(ctx context.Context, name string, fn func(context.Context) error) error {
	key := scheduler.JobLockKey(name)
	token, ok, err := s.locker.TryLock(ctx, key, cronJobLockTTL)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Info("cron job skipped", zap.String("job", name), zap.String("reason", "lock_held"))
		return ErrJobRunning
	}
	defer func() {
		if err := s.locker.Release(ctx, key, token); err != nil {
			s.log.Warn("failed to release job lock", zap.String("job", name), zap.Error(err))
		}
	}()
	return fn(ctx)
}

func (s *Server) CronCheckOverdue(c *gin.Context) {
	// Runs to completion even when the client disconnects.
	ctx := context.WithoutCancel(c.Request.Context())

	var result overduedomain.SweepResult
	err := s.withJobLock(ctx, scheduler.JobOverdueSweep, func(ctx context.Context) error {
		var err error
		result, err = s.overdueSvc.Sweep(ctx)
		return err
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) CronHostingReminder(c *gin.Context) {
	force, err := parseOptionalBool(c.Query("force"))
	if err != nil {
		AbortWithError(c, newValidationError("force", "invalid_force", "invalid force"))
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	var created bool
	err = s.withJobLock(ctx, scheduler.JobHostingReminder, func(ctx context.Context) error {
		var err error
		created, err = s.notificationSvc.HostingReminder(ctx, s.clock.Now(), force != nil && *force)
		return err
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"created": created}})
}
