package middleware

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"task-intake-assistant/config"
	"task-intake-assistant/pkg/log"
)

const (
	defaultRatePerMin = 30
	limiterCacheSize  = 10000
	limiterTTL        = 10 * time.Minute
)

type Middleware struct {
	l         log.Logger
	limiterMu *sync.Mutex // guards get-or-create on limiters
	limiters  *expirable.LRU[string, *rate.Limiter]
	rate      rate.Limit
	burst     int
}

func New(l log.Logger, cfg config.ConversationConfig) Middleware {
	perMin := cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = defaultRatePerMin
	}
	burst := perMin / 10
	if burst < 1 {
		burst = 1
	}
	return Middleware{
		l:         l,
		limiterMu: &sync.Mutex{},
		limiters:  expirable.NewLRU[string, *rate.Limiter](limiterCacheSize, nil, limiterTTL),
		rate:      rate.Limit(float64(perMin) / 60.0),
		burst:     burst,
	}
}
