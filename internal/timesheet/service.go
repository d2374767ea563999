// Package timesheet wraps the ESS timesheet endpoints with the session
// read-through cache. Reads are memoized per key with a TTL; writes go
// straight to the API and then drop exactly the keys they are known to have
// invalidated.
package timesheet

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ess-tools/attend/internal/cache"
	"github.com/ess-tools/attend/internal/model"
)

// Cache keys. Tasks are cached per date so a write to one day never evicts
// another.
const (
	keyHourCounts = "hourcounts"
	keyProjects   = "projects"
	taskKeyPrefix = "tasks:"
)

// ProjectTTL is the freshness window for the project list. Projects change
// far less often than timesheet data, so they stay cached longer than
// cache.DefaultTTL.
const ProjectTTL = time.Hour

// API is the subset of the ESS client the timesheet service consumes.
type API interface {
	ListTaskHourCounts(ctx context.Context) ([]model.HourCountEntry, error)
	ListTasksForDate(ctx context.Context, date string) ([]model.Task, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	AddTasks(ctx context.Context, tasks []model.Task) error
	UpdateTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// Service is the cached timesheet accessor layer. Construct one per session
// with the session's cache instance.
type Service struct {
	api   API
	cache *cache.Cache
	log   *zap.Logger
}

// NewService returns a Service over the given API and cache.
func NewService(api API, c *cache.Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, cache: c, log: log}
}

func taskKey(date string) string {
	return taskKeyPrefix + date
}

// readThrough serves key from c, falling back to load on a miss. A failed
// load propagates the error and stores nothing; there is no negative
// caching. The surrounding get/load/set is deliberately not atomic: two
// concurrent misses may both call load, and both will store the same value.
func readThrough[T any](c *cache.Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
		// A key collision across types should not happen; treat as a miss.
		c.Invalidate(key)
	}
	value, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, value, ttl)
	return value, nil
}

// HourCounts returns the per-day task rollup, cached with the default TTL.
func (s *Service) HourCounts(ctx context.Context) ([]model.HourCountEntry, error) {
	return readThrough(s.cache, keyHourCounts, cache.DefaultTTL, func() ([]model.HourCountEntry, error) {
		s.log.Debug("fetching hour counts")
		return s.api.ListTaskHourCounts(ctx)
	})
}

// TasksForDate returns the tasks logged on date, cached per date with the
// default TTL.
func (s *Service) TasksForDate(ctx context.Context, date string) ([]model.Task, error) {
	return readThrough(s.cache, taskKey(date), cache.DefaultTTL, func() ([]model.Task, error) {
		s.log.Debug("fetching tasks", zap.String("date", date))
		return s.api.ListTasksForDate(ctx, date)
	})
}

// Projects returns the project master list, cached with ProjectTTL.
func (s *Service) Projects(ctx context.Context) ([]model.Project, error) {
	return readThrough(s.cache, keyProjects, ProjectTTL, func() ([]model.Project, error) {
		s.log.Debug("fetching projects")
		return s.api.ListProjects(ctx)
	})
}

// AddTasks creates tasks, then invalidates each touched date's task list
// and the hour-count rollup. Invalidation runs only after a successful
// write.
func (s *Service) AddTasks(ctx context.Context, tasks []model.Task) error {
	if err := s.api.AddTasks(ctx, tasks); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, t := range tasks {
		if !seen[t.Date] {
			seen[t.Date] = true
			s.cache.Invalidate(taskKey(t.Date))
		}
	}
	s.cache.Invalidate(keyHourCounts)
	return nil
}

// UpdateTask replaces a task, then invalidates its date's task list and the
// hour-count rollup.
func (s *Service) UpdateTask(ctx context.Context, task model.Task) error {
	if err := s.api.UpdateTask(ctx, task); err != nil {
		return err
	}
	s.cache.Invalidate(taskKey(task.Date))
	s.cache.Invalidate(keyHourCounts)
	return nil
}

// DeleteTask deletes a task by id. The id alone does not identify the date
// whose task list went stale, so the whole cache is cleared rather than
// risking a stale per-date list.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}
