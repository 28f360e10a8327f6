package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"logitrack/internal/core/apperror"
	"logitrack/internal/core/security"
	"logitrack/internal/core/tx"
	"logitrack/pkg/logger"
)

const instrumentationName = "logitrack/dashboard"

// Service computes dashboard metrics and activity feeds.
// Every public method resolves the caller's base scope exactly once,
// before any query runs.
type Service struct {
	repo      Repository
	txManager tx.Manager
	tracer    trace.Tracer
	requests  metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewService creates a dashboard service using the global otel providers.
func NewService(repo Repository, txManager tx.Manager) *Service {
	meter := otel.Meter(instrumentationName)

	requests, err := meter.Int64Counter("dashboard.requests",
		metric.WithDescription("Dashboard queries served, by kind"))
	if err != nil {
		requests, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("dashboard.requests")
	}

	duration, err := meter.Float64Histogram("dashboard.duration_ms",
		metric.WithDescription("Dashboard query latency"),
		metric.WithUnit("ms"))
	if err != nil {
		duration, _ = noop.NewMeterProvider().Meter(instrumentationName).Float64Histogram("dashboard.duration_ms")
	}

	return &Service{
		repo:      repo,
		txManager: txManager,
		tracer:    otel.Tracer(instrumentationName),
		requests:  requests,
		duration:  duration,
	}
}

// ComputeMetrics returns opening/closing balances and movement totals for f.
func (s *Service) ComputeMetrics(ctx context.Context, f Filter) (_ *Metrics, err error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.ComputeMetrics")
	defer s.finish(ctx, span, "metrics", time.Now(), &err)

	f, err = s.scope(ctx, f)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(filterAttributes(f)...)

	var result Metrics
	err = s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		period, err := s.repo.SumMovements(ctx, f)
		if err != nil {
			return fmt.Errorf("sum movements: %w", err)
		}

		assigned, err := s.repo.SumAssigned(ctx, f)
		if err != nil {
			return fmt.Errorf("sum assigned: %w", err)
		}

		var opening int64
		if start, ok := f.StartDate(); ok {
			before, err := s.repo.SumBefore(ctx, f, start)
			if err != nil {
				return fmt.Errorf("sum opening balance: %w", err)
			}
			opening = before.Balance()
		}

		result = BuildMetrics(opening, period, assigned)
		return nil
	})
	if err != nil {
		return nil, apperror.Database(fmt.Errorf("compute metrics: %w", err))
	}

	logger.Debug(ctx, "dashboard metrics computed",
		"closing_balance", result.ClosingBalance,
		"net_movement", result.NetMovement)

	return &result, nil
}

// ListRecentTransactions returns the merged feed for kind, newest first.
func (s *Service) ListRecentTransactions(ctx context.Context, f Filter, kind QueryKind, page Page) (_ []TransactionRecord, err error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.ListRecentTransactions",
		trace.WithAttributes(attribute.String("dashboard.kind", string(kind))))
	defer s.finish(ctx, span, "recent_"+string(kind), time.Now(), &err)

	sources := kind.Sources()
	if sources == nil {
		return nil, apperror.NewInvalidField("kind", string(kind), "unknown transaction kind")
	}
	if page, err = page.validated(); err != nil {
		return nil, err
	}

	f, err = s.scope(ctx, f)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(filterAttributes(f)...)

	var records []TransactionRecord
	err = s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var scanErr error
		records, scanErr = s.recent(ctx, f, sources, page)
		return scanErr
	})
	if err != nil {
		return nil, apperror.Database(fmt.Errorf("list recent transactions: %w", err))
	}

	return records, nil
}

// NetMovement returns the net-movement totals together with the purchase and
// transfer records behind them.
func (s *Service) NetMovement(ctx context.Context, f Filter, page Page) (_ *NetMovementDetails, err error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.NetMovement")
	defer s.finish(ctx, span, "net_movement", time.Now(), &err)

	if page, err = page.validated(); err != nil {
		return nil, err
	}

	f, err = s.scope(ctx, f)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(filterAttributes(f)...)

	var details NetMovementDetails
	err = s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		totals, err := s.repo.SumMovements(ctx, f)
		if err != nil {
			return fmt.Errorf("sum movements: %w", err)
		}

		records, err := s.recent(ctx, f, QueryNetMovement.Sources(), page)
		if err != nil {
			return err
		}

		details = NetMovementDetails{
			Purchases:    totals.Purchases,
			TransferIn:   totals.TransferIn,
			TransferOut:  totals.TransferOut,
			NetMovement:  totals.Net(),
			Transactions: records,
		}
		return nil
	})
	if err != nil {
		return nil, apperror.Database(fmt.Errorf("net movement: %w", err))
	}

	return &details, nil
}

// recent scans every source for a full page, merges and cuts the page out.
func (s *Service) recent(ctx context.Context, f Filter, sources []Kind, page Page) ([]TransactionRecord, error) {
	n := page.window()
	base, scoped := f.BaseID()
	feeds := make([][]TransactionRecord, 0, len(sources))
	for _, kind := range sources {
		records, err := s.repo.Recent(ctx, f, kind, n)
		if err != nil {
			return nil, fmt.Errorf("recent %s: %w", kind, err)
		}
		for i := range records {
			records[i].Type = kind
			records[i].Impact = kind.Impact(records[i].Quantity)
			if kind == KindTransfer {
				records[i].orient(base, scoped)
			}
		}
		feeds = append(feeds, records)
	}

	merged := MergeRecent(n, feeds...)
	if page.Offset >= len(merged) {
		return []TransactionRecord{}, nil
	}
	return merged[page.Offset:], nil
}

// scope applies the caller's access scope to the requested base.
func (s *Service) scope(ctx context.Context, f Filter) (Filter, error) {
	base, err := security.GetScope(ctx).ResolveBase(f.BasePtr())
	if err != nil {
		return Filter{}, err
	}
	return f.WithBasePtr(base), nil
}

func (s *Service) finish(ctx context.Context, span trace.Span, kind string, start time.Time, errp *error) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	s.requests.Add(ctx, 1, attrs)
	s.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)

	if err := *errp; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if appErr, ok := apperror.AsAppError(err); !ok || appErr.HTTPStatus >= 500 {
			logger.Error(ctx, "dashboard query failed", "kind", kind, "error", err)
		}
	}
	span.End()
}

func filterAttributes(f Filter) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if id, ok := f.BaseID(); ok {
		attrs = append(attrs, attribute.Int64("dashboard.base_id", id))
	}
	if id, ok := f.EquipmentTypeID(); ok {
		attrs = append(attrs, attribute.Int64("dashboard.equipment_type_id", id))
	}
	if d, ok := f.StartDate(); ok {
		attrs = append(attrs, attribute.String("dashboard.start_date", d.Format(DateLayout)))
	}
	if d, ok := f.EndDate(); ok {
		attrs = append(attrs, attribute.String("dashboard.end_date", d.Format(DateLayout)))
	}
	return attrs
}
