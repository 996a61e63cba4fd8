package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/geocoder89/timetrack/internal/cache"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/domain/user"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/geocoder89/timetrack/internal/utils"
)

// Store reads the rows a summary is built from. Rows must cover every
// project the user owns and every task in them, including ones with no
// entries in range.
type Store interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	SummaryRows(ctx context.Context, userID string, r Range) ([]Row, error)
}

type Service struct {
	store Store
	cache cache.Store
	prom  *observability.Prom
	log   *slog.Logger
	now   func() time.Time
}

type Option func(*Service)

func WithCache(c cache.Store) Option {
	return func(s *Service) { s.cache = c }
}

func WithProm(p *observability.Prom) Option {
	return func(s *Service) { s.prom = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the service clock; handlers resolve filters against it.
func (s *Service) Now() time.Time {
	return s.now()
}

// Summarize returns per-project and per-task totals for userID in r.
func (s *Service) Summarize(ctx context.Context, userID string, r Range) (Summary, error) {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	if !exists {
		return Summary{}, user.ErrNotFound
	}

	key, cacheable := s.cacheKey(ctx, userID, r)
	if cacheable {
		if sum, ok := s.fromCache(ctx, key); ok {
			sum.Range = r
			return sum, nil
		}
	}

	rows, err := s.store.SummaryRows(ctx, userID, r)
	if err != nil {
		return Summary{}, err
	}
	sum := Build(r, rows)

	if cacheable {
		if b, err := json.Marshal(sum); err == nil {
			if err := s.cache.Set(ctx, key, b); err != nil {
				s.log.WarnContext(ctx, "summary_cache_set_failed", "err", err)
			}
		}
	}
	return sum, nil
}

// SummarizeFilter resolves f against the service clock first.
func (s *Service) SummarizeFilter(ctx context.Context, userID string, f Filter) (Summary, error) {
	r, err := Resolve(s.now(), f)
	if err != nil {
		return Summary{}, err
	}
	return s.Summarize(ctx, userID, r)
}

// Invalidate drops every cached summary of userID. Call it after any write
// that changes the user's projects, tasks or entries.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, utils.SummaryGenerationKey(userID)); err != nil {
		s.log.WarnContext(ctx, "summary_cache_invalidate_failed", "user_id", userID, "err", err)
	}
}

func (s *Service) cacheKey(ctx context.Context, userID string, r Range) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	gen, err := s.cache.Counter(ctx, utils.SummaryGenerationKey(userID))
	if err != nil {
		s.prom.CacheLookup("error")
		s.log.WarnContext(ctx, "summary_cache_generation_failed", "err", err)
		return "", false
	}
	return utils.BuildSummaryCacheKey(userID, gen, r.Key()), true
}

func (s *Service) fromCache(ctx context.Context, key string) (Summary, bool) {
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.prom.CacheLookup("error")
		s.log.WarnContext(ctx, "summary_cache_get_failed", "err", err)
		return Summary{}, false
	}
	if !ok {
		s.prom.CacheLookup("miss")
		return Summary{}, false
	}

	var sum Summary
	if err := json.Unmarshal(b, &sum); err != nil {
		s.prom.CacheLookup("error")
		return Summary{}, false
	}
	s.prom.CacheLookup("hit")
	restoreHundredths(&sum)
	return sum, true
}

// hundredths are not serialized; the hours carry them exactly
func restoreHundredths(sum *Summary) {
	sum.Hundredths = timeentry.Hundredths(sum.TotalHours)
	for i := range sum.Projects {
		p := &sum.Projects[i]
		p.Hundredths = timeentry.Hundredths(p.TotalHours)
		for j := range p.Tasks {
			p.Tasks[j].Hundredths = timeentry.Hundredths(p.Tasks[j].Hours)
		}
	}
}
