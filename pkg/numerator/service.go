// Package numerator issues human-readable sequential numbers (TR-2024-0001)
// backed by the sys_sequences table.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Inside a transaction the number rolls back with the document, so there are no gaps.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Faster, but restarts leave gaps.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	// Strategy to use for number generation
	Strategy Strategy
	// RangeSize is the number of values reserved at once by StrategyCached.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierFunc resolves the querier for a call, typically the transaction in ctx.
type QuerierFunc func(ctx context.Context) Querier

type cachedRange struct {
	current int64
	max     int64
}

// Service provides numbering functionality.
type Service struct {
	querier QuerierFunc

	// cacheMu protects ranges
	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a numerator service with a fixed querier.
func New(querier Querier) *Service {
	return NewWithResolver(func(context.Context) Querier { return querier })
}

// NewWithResolver creates a numerator service that resolves its querier per call.
func NewWithResolver(fn QuerierFunc) *Service {
	return &Service{
		querier: fn,
		ranges:  make(map[string]*cachedRange),
	}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "TR")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 4)
	PadWidth int

	// ResetYearly restarts the counter every calendar year
	ResetYearly bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    4,
		ResetYearly: true,
	}
}

// GetNextNumber generates the next number.
// Pattern: PREFIX-YEAR-NNNN (e.g., TR-2024-0001)
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	year := s.sequenceYear(cfg, period)
	var num int64
	var err error

	switch opts.Strategy {
	case StrategyCached:
		num, err = s.getNextCached(ctx, cfg.Prefix, year, opts)
	default:
		num, err = s.getNextStrict(ctx, cfg.Prefix, year)
	}
	if err != nil {
		return "", err
	}

	return s.formatNumber(cfg, period, num), nil
}

const upsertSQL = `
	INSERT INTO sys_sequences (sequence_type, year, current_val)
	VALUES ($1, $2, $3)
	ON CONFLICT (sequence_type, year) DO UPDATE SET current_val = sys_sequences.current_val + $3
	RETURNING current_val
`

// getNextStrict fetches the next number directly from DB using UPSERT + RETURNING.
func (s *Service) getNextStrict(ctx context.Context, prefix string, year int) (int64, error) {
	var num int64
	if err := s.querier(ctx).QueryRow(ctx, upsertSQL, prefix, year, int64(1)).Scan(&num); err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// getNextCached fetches next number from memory, reserving a new range when exhausted.
func (s *Service) getNextCached(ctx context.Context, prefix string, year int, opts *Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	key := cacheKey(prefix, year)
	rng, exists := s.ranges[key]
	if !exists {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		// current_val holds the last reserved value; the new range is (newMax-size, newMax]
		var newMax int64
		if err := s.querier(ctx).QueryRow(ctx, upsertSQL, prefix, year, size).Scan(&newMax); err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber moves the counter so that the next issued number is value+1.
// Used by the seed command after bulk-loading numbered rows.
func (s *Service) SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error {
	year := s.sequenceYear(cfg, period)

	var result int64
	err := s.querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (sequence_type, year, current_val)
		VALUES ($1, $2, $3)
		ON CONFLICT (sequence_type, year) DO UPDATE SET current_val = $3
		RETURNING current_val
	`, cfg.Prefix, year, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, cacheKey(cfg.Prefix, year))
	s.cacheMu.Unlock()

	if err != nil {
		return fmt.Errorf("set next number: %w", err)
	}
	return nil
}

// sequenceYear is the year column of the counter row; 0 for counters that never reset.
func (s *Service) sequenceYear(cfg Config, period time.Time) int {
	if cfg.ResetYearly {
		return period.Year()
	}
	return 0
}

func cacheKey(prefix string, year int) string {
	return fmt.Sprintf("%s_%d", prefix, year)
}

// formatNumber creates the final number string.
func (s *Service) formatNumber(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseNumber extracts numeric part from formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	i := strings.LastIndex(formatted, "-")
	if i < 0 {
		return -1
	}
	num, err := strconv.ParseInt(formatted[i+1:], 10, 64)
	if err != nil || num < 0 {
		return -1
	}
	return num
}
