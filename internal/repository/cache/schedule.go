package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	gocache "github.com/patrickmn/go-cache"
)

// ScheduleCache memoizes resolved shift schedules per employee and date.
// Only successful lookups are stored.
type ScheduleCache struct {
	next  schedule.ShiftScheduleRepository
	store *gocache.Cache
	ttl   time.Duration
}

// NewScheduleCache wraps next. A non-positive ttl uses go-cache's default
// expiration of five minutes.
func NewScheduleCache(next schedule.ShiftScheduleRepository, ttl time.Duration) *ScheduleCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ScheduleCache{
		next:  next,
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// GetShiftSchedule implements schedule.ShiftScheduleRepository.
func (c *ScheduleCache) GetShiftSchedule(ctx context.Context, employeeID string, date time.Time, companyID string) (schedule.ShiftSchedule, error) {
	key := scheduleKey(employeeID, date, companyID)
	if cached, found := c.store.Get(key); found {
		return cached.(schedule.ShiftSchedule), nil
	}

	s, err := c.next.GetShiftSchedule(ctx, employeeID, date, companyID)
	if err != nil {
		return schedule.ShiftSchedule{}, err
	}

	c.store.Set(key, s, c.ttl)
	return s, nil
}

func scheduleKey(employeeID string, date time.Time, companyID string) string {
	return fmt.Sprintf("%s|%s|%s", companyID, employeeID, date.Format("2006-01-02"))
}

var _ schedule.ShiftScheduleRepository = (*ScheduleCache)(nil)
