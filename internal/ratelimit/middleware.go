package ratelimit

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	autherror "github.com/Mollylil16/developpement-farm-sub012/internal/errors"
)

// Rule is one route budget: at most Limit requests per fixed Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// DefaultRule applies to any route without an override.
var DefaultRule = Rule{Limit: 100, Window: 15 * time.Minute}

// Limiter guards routes with a fixed-window counter. Per-route overrides are
// an explicit map resolved at startup: "controller:handler" beats
// "controller" beats the process-wide default.
type Limiter struct {
	store       CounterStore
	defaultRule Rule
	rules       map[string]Rule
	bypass      bool
	logger      *zap.Logger
}

func NewLimiter(store CounterStore, rules map[string]Rule, bypass bool, logger *zap.Logger) *Limiter {
	if rules == nil {
		rules = make(map[string]Rule)
	}

	return &Limiter{
		store:       store,
		defaultRule: DefaultRule,
		rules:       rules,
		bypass:      bypass,
		logger:      logger,
	}
}

func (l *Limiter) resolveRule(controller, handler string) Rule {
	if r, ok := l.rules[controller+":"+handler]; ok {
		return r
	}
	if r, ok := l.rules[controller]; ok {
		return r
	}
	return l.defaultRule
}

// Handle returns the Fiber middleware for one route identity.
func (l *Limiter) Handle(controller, handler string) fiber.Handler {
	rule := l.resolveRule(controller, handler)

	return func(c *fiber.Ctx) error {
		if l.bypass {
			return c.Next()
		}

		// Limit and window are part of the key so a configuration change
		// never collides with counters from the previous budget.
		key := fmt.Sprintf("%s:%s:%s:%d:%d",
			c.IP(), controller, handler, rule.Limit, rule.Window.Milliseconds())

		win, err := l.store.Increment(c.Context(), key, rule.Window)
		if err != nil {
			// Fail open: the limiter is an abuse deterrent, not a
			// correctness gate.
			l.logger.Error("rate limit store unavailable", zap.Error(err))
			return c.Next()
		}

		remaining := rule.Limit - win.Count
		if remaining < 0 {
			remaining = 0
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(win.ResetAt.UnixMilli(), 10))

		if win.Count > rule.Limit {
			retryAfter := int(time.Until(win.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			c.Set("Retry-After", strconv.Itoa(retryAfter))

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"statusCode": fiber.StatusTooManyRequests,
				"message":    autherror.ErrTooManyRequests.Error(),
				"retryAfter": retryAfter,
			})
		}

		return c.Next()
	}
}
