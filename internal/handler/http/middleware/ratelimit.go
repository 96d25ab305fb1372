package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// defaultLimiterIdle is how long an unused employee limiter is kept.
const defaultLimiterIdle = 10 * time.Minute

// EmployeeRateLimiter stores a rate limiter for each employee. Limiters idle
// for longer than the idle period are evicted and start full on next use.
type EmployeeRateLimiter struct {
	limiters *gocache.Cache
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

// NewEmployeeRateLimiter creates a new EmployeeRateLimiter. A non-positive
// idle uses ten minutes.
func NewEmployeeRateLimiter(r rate.Limit, b int, idle time.Duration) *EmployeeRateLimiter {
	if idle <= 0 {
		idle = defaultLimiterIdle
	}
	return &EmployeeRateLimiter{
		limiters: gocache.New(idle, idle),
		r:        r,
		b:        b,
	}
}

// GetLimiter returns the rate limiter for an employee, creating it on first
// use. Every call pushes the limiter's eviction back by the idle period.
func (l *EmployeeRateLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if cached, found := l.limiters.Get(key); found {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.r, l.b)
	}
	l.limiters.SetDefault(key, limiter)
	return limiter
}

// Len reports how many employee limiters are held, expired ones included
// until the janitor runs.
func (l *EmployeeRateLimiter) Len() int {
	return l.limiters.ItemCount()
}

// PunchRateLimiter throttles requests per employee_id claim, falling back to
// the remote address for tokens without one.
func PunchRateLimiter(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := NewEmployeeRateLimiter(r, b, defaultLimiterIdle)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			key := req.RemoteAddr
			if _, claims, err := jwtauth.FromContext(req.Context()); err == nil {
				if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
					key = employeeID
				}
			}

			if !limiter.GetLimiter(key).Allow() {
				w.Header().Set("Retry-After", "1")
				response.TooManyRequests(w, "Too many punch attempts, slow down")
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}
