package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-history/internal/domain/history"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MinSeasonYear = 1990
	MaxSeasonYear = 2100

	DefaultStartYear = 2012

	seasonUnavailableMessage = "Season not available"
)

// YearRange is an inclusive range of season years.
type YearRange struct {
	StartYear int
	EndYear   int
}

// Years lists the range in ascending order.
func (r YearRange) Years() []int {
	if r.EndYear < r.StartYear {
		return nil
	}
	out := make([]int, 0, r.EndYear-r.StartYear+1)
	for year := r.StartYear; year <= r.EndYear; year++ {
		out = append(out, year)
	}
	return out
}

// SeasonError reports a year left out of a result because its data was unavailable.
type SeasonError struct {
	Year  int    `json:"year"`
	Error string `json:"error"`
}

// StatsResult is the aggregated history plus the years that could not be loaded.
type StatsResult struct {
	history.Result
	SeasonErrors []SeasonError `json:"seasonErrors"`
}

// FinishesResult is the finish summary plus the years that could not be loaded.
type FinishesResult struct {
	Finishes     []history.FinishSummary `json:"finishes"`
	SeasonErrors []SeasonError           `json:"seasonErrors"`
}

// HistoryResult lists the canonical records of every loaded season.
type HistoryResult struct {
	Seasons []season.Record `json:"seasons"`
	Errors  []SeasonError   `json:"errors"`
}

type HistoryConfig struct {
	DefaultStartYear int
	FetchWorkers     int
	Now              func() time.Time
}

// SeasonInvalidator drops whatever a caching source holds for one season.
type SeasonInvalidator interface {
	Invalidate(ctx context.Context, year int) error
}

// HistoryService assembles seasons from a Source and runs the history engine over them.
type HistoryService struct {
	source      season.Source
	overrides   history.NameOverrides
	cfg         HistoryConfig
	logger      *logging.Logger
	invalidator SeasonInvalidator
}

func NewHistoryService(source season.Source, overrides history.NameOverrides, cfg HistoryConfig, logger *logging.Logger) *HistoryService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultStartYear <= 0 {
		cfg.DefaultStartYear = DefaultStartYear
	}
	if cfg.FetchWorkers < 1 {
		cfg.FetchWorkers = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if overrides == nil {
		overrides = history.NameOverrides{}
	}

	return &HistoryService{
		source:    source,
		overrides: overrides,
		cfg:       cfg,
		logger:    logger,
	}
}

// WithInvalidator enables RefreshSeason against a caching source.
func (s *HistoryService) WithInvalidator(invalidator SeasonInvalidator) *HistoryService {
	s.invalidator = invalidator
	return s
}

// ResolveRange fills unset bounds (zero) with the default start year and the
// current calendar year, then validates the range.
func (s *HistoryService) ResolveRange(startYear, endYear int) (YearRange, error) {
	if startYear == 0 {
		startYear = s.cfg.DefaultStartYear
	}
	if endYear == 0 {
		endYear = s.cfg.Now().Year()
	}

	r := YearRange{StartYear: startYear, EndYear: endYear}
	if err := validateYear(r.StartYear); err != nil {
		return YearRange{}, err
	}
	if err := validateYear(r.EndYear); err != nil {
		return YearRange{}, err
	}
	if r.StartYear > r.EndYear {
		return YearRange{}, fmt.Errorf("%w: startYear=%d is after endYear=%d", ErrInvalidInput, r.StartYear, r.EndYear)
	}
	return r, nil
}

func (s *HistoryService) Stats(ctx context.Context, r YearRange) (StatsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.Stats",
		attribute.Int("start_year", r.StartYear), attribute.Int("end_year", r.EndYear))
	defer span.End()

	seasons, seasonErrors, err := s.collect(ctx, r)
	if err != nil {
		return StatsResult{}, err
	}

	return StatsResult{
		Result:       history.Aggregate(seasons, s.overrides),
		SeasonErrors: seasonErrors,
	}, nil
}

func (s *HistoryService) Finishes(ctx context.Context, r YearRange) (FinishesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.Finishes",
		attribute.Int("start_year", r.StartYear), attribute.Int("end_year", r.EndYear))
	defer span.End()

	stats, err := s.Stats(ctx, r)
	if err != nil {
		return FinishesResult{}, err
	}

	return FinishesResult{
		Finishes:     history.SummarizeFinishes(stats.SeasonFinishes),
		SeasonErrors: stats.SeasonErrors,
	}, nil
}

func (s *HistoryService) History(ctx context.Context, r YearRange) (HistoryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.History",
		attribute.Int("start_year", r.StartYear), attribute.Int("end_year", r.EndYear))
	defer span.End()

	seasons, seasonErrors, err := s.collect(ctx, r)
	if err != nil {
		return HistoryResult{}, err
	}

	records := make([]season.Record, 0, len(seasons))
	for _, item := range seasons {
		records = append(records, item.Record)
	}
	return HistoryResult{Seasons: records, Errors: seasonErrors}, nil
}

// Season returns one canonical record. An unavailable season is ErrNotFound.
func (s *HistoryService) Season(ctx context.Context, year int) (season.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.Season", attribute.Int("year", year))
	defer span.End()

	if err := validateYear(year); err != nil {
		return season.Record{}, err
	}

	record, err := s.fetch(ctx, year)
	if err != nil {
		if errors.Is(err, ErrDependencyUnavailable) {
			return season.Record{}, fmt.Errorf("fetch season=%d: %w", year, err)
		}
		return season.Record{}, fmt.Errorf("%w: season=%d: %w", ErrNotFound, year, err)
	}
	return record, nil
}

// WeeklyScores returns the per-week score breakdown of one season.
func (s *HistoryService) WeeklyScores(ctx context.Context, year int) (history.SeasonWeeks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.WeeklyScores", attribute.Int("year", year))
	defer span.End()

	record, err := s.Season(ctx, year)
	if err != nil {
		return history.SeasonWeeks{}, err
	}
	return history.WeeklyBreakdown(history.Season{Record: record, Year: year}, s.overrides), nil
}

// RefreshSeason drops the cached copy of a season and loads it again.
func (s *HistoryService) RefreshSeason(ctx context.Context, year int) (season.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.RefreshSeason", attribute.Int("year", year))
	defer span.End()

	if err := validateYear(year); err != nil {
		return season.Record{}, err
	}
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, year); err != nil {
			return season.Record{}, fmt.Errorf("%w: invalidate season=%d: %w", ErrDependencyUnavailable, year, err)
		}
		s.logger.InfoContext(ctx, "season cache invalidated", "year", year)
	}
	return s.Season(ctx, year)
}

type fetchOutcome struct {
	record season.Record
	err    error
}

// collect loads every year of r. Failed years are logged, reported as
// SeasonErrors and left out; the returned seasons stay in ascending year order.
func (s *HistoryService) collect(ctx context.Context, r YearRange) ([]history.Season, []SeasonError, error) {
	years := r.Years()
	outcomes := make([]fetchOutcome, len(years))

	if s.cfg.FetchWorkers <= 1 || len(years) <= 1 {
		for i, year := range years {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			outcomes[i] = s.fetchGuarded(ctx, year)
		}
	} else if err := s.fetchParallel(ctx, years, outcomes); err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	seasons := make([]history.Season, 0, len(years))
	seasonErrors := make([]SeasonError, 0)
	for i, year := range years {
		outcome := outcomes[i]
		if outcome.err != nil {
			s.logger.WarnContext(ctx, "season unavailable, omitting from result", "year", year, "error", outcome.err)
			seasonErrors = append(seasonErrors, SeasonError{Year: year, Error: seasonUnavailableMessage})
			continue
		}
		seasons = append(seasons, history.Season{Record: outcome.record, Year: year})
	}

	return seasons, seasonErrors, nil
}

func (s *HistoryService) fetchParallel(ctx context.Context, years []int, outcomes []fetchOutcome) error {
	pool, err := ants.NewPool(min(s.cfg.FetchWorkers, len(years)))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, year := range years {
		i, year := i, year
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			outcomes[i] = s.fetchGuarded(ctx, year)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return fmt.Errorf("submit season fetch to worker pool: %w", err)
		}
	}
	workers.Wait()
	return nil
}

// fetchGuarded turns a panicking source into that year's failure.
func (s *HistoryService) fetchGuarded(ctx context.Context, year int) fetchOutcome {
	var out fetchOutcome
	var catcher panics.Catcher
	catcher.Try(func() {
		out.record, out.err = s.fetch(ctx, year)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return fetchOutcome{err: fmt.Errorf("%w: season=%d: %w", season.ErrSourceUnavailable, year, recovered.AsError())}
	}
	return out
}

func (s *HistoryService) fetch(ctx context.Context, year int) (season.Record, error) {
	if s.source == nil {
		return season.Record{}, fmt.Errorf("%w: no season source configured", season.ErrSourceUnavailable)
	}
	record, err := s.source.FetchSeason(ctx, year)
	if err != nil {
		return season.Record{}, err
	}
	return record, nil
}

func validateYear(year int) error {
	if year < MinSeasonYear || year > MaxSeasonYear {
		return fmt.Errorf("%w: year=%d must be between %d and %d", ErrInvalidInput, year, MinSeasonYear, MaxSeasonYear)
	}
	return nil
}
