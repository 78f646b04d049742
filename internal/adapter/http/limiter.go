package httpadapter

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/cloudwego/hertz/pkg/app"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("too many requests for citizen")

// maxTrackedCitizens bounds the limiter map; it is reset when exceeded.
const maxTrackedCitizens = 10000

// CitizenLimiter keeps one token bucket per citizen name.
type CitizenLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewCitizenLimiter returns nil when perSecond is not positive, which
// disables limiting.
func NewCitizenLimiter(perSecond float64, burst int) *CitizenLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &CitizenLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow keys buckets by the trimmed name, as the use cases resolve citizens.
func (l *CitizenLimiter) Allow(name string) bool {
	if l == nil {
		return true
	}
	name = strings.TrimSpace(name)
	l.mu.Lock()
	lim, ok := l.limiters[name]
	if !ok {
		if len(l.limiters) >= maxTrackedCitizens {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[name] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// middleware rejects a mutating request once the :name citizen is over budget.
func (l *CitizenLimiter) middleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if !l.Allow(ctx.Param("name")) {
			writeError(ctx, ErrRateLimited)
			ctx.Abort()
			return
		}
		ctx.Next(c)
	}
}
