package leave

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"hris-leave/internal/calendar"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	calendarCacheKeyPrefix      = "leave:calendar:approved:"
	calendarGenerationKeyPrefix = "leave:calendar:generation:"
)

// GroupApprovedDays clips each approved request to [from, to], expands it to
// business days and merges the days per (employee, leave type). Entries with
// no remaining day are dropped. The output is sorted, so it does not depend
// on the order of requests.
func GroupApprovedDays(requests []LeaveRequest, from, to time.Time) []CalendarEntry {
	type key struct {
		employeeID uuid.UUID
		leaveType  string
	}
	days := map[key]map[string]struct{}{}

	for _, r := range requests {
		start, end, ok := calendar.Clip(r.StartDate, r.EndDate, from, to)
		if !ok {
			continue
		}
		k := key{r.EmployeeID, string(r.LeaveType)}
		for d := range calendar.BusinessDays(start, end) {
			if days[k] == nil {
				days[k] = map[string]struct{}{}
			}
			days[k][d.Format(calendar.DateLayout)] = struct{}{}
		}
	}

	entries := make([]CalendarEntry, 0, len(days))
	for k, set := range days {
		dates := make([]string, 0, len(set))
		for d := range set {
			dates = append(dates, d)
		}
		slices.Sort(dates)
		entries = append(entries, CalendarEntry{
			EmployeeID: k.employeeID.String(),
			LeaveType:  k.leaveType,
			Dates:      dates,
		})
	}
	slices.SortFunc(entries, func(a, b CalendarEntry) int {
		return cmp.Or(cmp.Compare(a.EmployeeID, b.EmployeeID), cmp.Compare(a.LeaveType, b.LeaveType))
	})
	return entries
}

// monthsTouched returns the YYYY-MM tokens of every month [start, end] spans.
func monthsTouched(start, end time.Time) []string {
	var months []string
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// MonthCache stores ApprovedByMonth results per month. Every month has a
// generation that Invalidate bumps; a fill carries the generation read before
// the database query and is dropped if the month was invalidated since.
type MonthCache interface {
	Get(ctx context.Context, month string) ([]CalendarEntry, bool, error)
	Generation(ctx context.Context, month string) (int64, error)
	Set(ctx context.Context, month string, generation int64, entries []CalendarEntry) (bool, error)
	Invalidate(ctx context.Context, months ...string) error
}

// KEYS[1] entries, KEYS[2] generation; ARGV generation, payload, ttl ms.
var setIfGeneration = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current ~= tonumber(ARGV[1]) then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

type redisMonthCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisMonthCache(rdb redis.Cmdable, ttl time.Duration) MonthCache {
	return &redisMonthCache{rdb: rdb, ttl: ttl}
}

func CalendarCacheKey(month string) string {
	return calendarCacheKeyPrefix + month
}

func CalendarGenerationKey(month string) string {
	return calendarGenerationKeyPrefix + month
}

func (c *redisMonthCache) Get(ctx context.Context, month string) ([]CalendarEntry, bool, error) {
	raw, err := c.rdb.Get(ctx, CalendarCacheKey(month)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entries []CalendarEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *redisMonthCache) Generation(ctx context.Context, month string) (int64, error) {
	gen, err := c.rdb.Get(ctx, CalendarGenerationKey(month)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisMonthCache) Set(ctx context.Context, month string, generation int64, entries []CalendarEntry) (bool, error) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return false, err
	}
	written, err := setIfGeneration.Run(ctx, c.rdb,
		[]string{CalendarCacheKey(month), CalendarGenerationKey(month)},
		generation, string(raw), c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return written == 1, nil
}

// Invalidate bumps each month's generation and drops its entries in one
// MULTI/EXEC. Generation keys never expire.
func (c *redisMonthCache) Invalidate(ctx context.Context, months ...string) error {
	if len(months) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range months {
			pipe.Incr(ctx, CalendarGenerationKey(m))
			pipe.Del(ctx, CalendarCacheKey(m))
		}
		return nil
	})
	return err
}

type noopMonthCache struct{}

func (noopMonthCache) Get(context.Context, string) ([]CalendarEntry, bool, error) {
	return nil, false, nil
}

func (noopMonthCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func (noopMonthCache) Set(context.Context, string, int64, []CalendarEntry) (bool, error) {
	return false, nil
}

func (noopMonthCache) Invalidate(context.Context, ...string) error { return nil }
