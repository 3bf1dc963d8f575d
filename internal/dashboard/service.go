package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"govis/internal/aggregate"
	"govis/internal/cache"
	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/schema"
	"govis/internal/sources"
)

const cacheKey = "dashboard"

// Service builds dashboard payloads from a row source and caches them.
type Service struct {
	source    sources.RowSource
	extractor schema.Extractor
	opts      aggregate.Options
	cache     cache.Cache[Payload]
	group     singleflight.Group
	logger    *log.Logger

	builds   atomic.Int64
	failures atomic.Int64
}

// Stats reports build counters and cache effectiveness.
type Stats struct {
	Builds   int64       `json:"builds"`
	Failures int64       `json:"failures"`
	Cache    cache.Stats `json:"cache"`
}

// NewService wires a row source to the aggregation engine. A nil cache
// disables caching.
func NewService(source sources.RowSource, extractor schema.Extractor, opts aggregate.Options, c cache.Cache[Payload], logger *log.Logger) *Service {
	return &Service{
		source:    source,
		extractor: extractor,
		opts:      opts,
		cache:     c,
		logger:    logger.WithComponent(log.ComponentDashboard),
	}
}

// Dashboard returns the cached payload, building it on a miss. Concurrent
// misses share a single build.
func (s *Service) Dashboard(ctx context.Context) (Payload, error) {
	if s.cache != nil {
		if p, ok := s.cache.Get(cacheKey); ok {
			return p, nil
		}
	}

	v, err, shared := s.group.Do(cacheKey, func() (any, error) {
		p, err := s.Build(ctx)
		if err != nil {
			return Payload{}, err
		}
		if s.cache != nil {
			s.cache.Set(cacheKey, p)
		}
		return p, nil
	})
	if err != nil {
		return Payload{}, err
	}
	if shared {
		s.logger.DebugContext(ctx, "Dashboard build shared with concurrent request")
	}
	return v.(Payload), nil
}

// Refresh drops the cached payload and builds a fresh one.
func (s *Service) Refresh(ctx context.Context) (Payload, error) {
	s.Invalidate()
	return s.Dashboard(ctx)
}

// Invalidate drops the cached payload.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Delete(cacheKey)
	}
}

// Build fetches, extracts and aggregates without touching the cache.
// Expense rows are best effort: when they cannot be read the expense view
// is empty and the rest of the payload is still served.
func (s *Service) Build(ctx context.Context) (Payload, error) {
	start := time.Now()
	s.builds.Add(1)

	var main, expenses []core.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.source.ExpenditureRows(gctx)
		if err != nil {
			return err
		}
		main = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.ExpenseRows(gctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.WarnContext(ctx, "Expense rows unavailable, continuing without expense analysis",
					log.FieldError, err)
			}
			return nil
		}
		expenses = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		s.failures.Add(1)
		s.logger.ErrorContext(ctx, "Dashboard build failed",
			log.FieldOperation, log.OpBuild,
			log.FieldError, err)
		if errors.Is(err, core.ErrDataSourceUnavailable) {
			return Payload{}, err
		}
		return Payload{}, core.Unavailable("fetch expenditure rows", err)
	}

	in := aggregate.Input{
		Records:  make([]core.ExpenditureRecord, 0, len(main)),
		Expenses: make([]core.ExpenseRecord, 0, len(expenses)),
	}
	for _, row := range main {
		in.Records = append(in.Records, s.extractor.Expenditure(row))
	}
	for _, row := range expenses {
		in.Expenses = append(in.Expenses, s.extractor.Expense(row))
	}

	p := Assemble(aggregate.Aggregate(in, s.opts))

	s.logger.InfoContext(ctx, "Dashboard built",
		log.FieldSchemaVariant, s.extractor.Variant().String(),
		log.FieldRowCount, len(main),
		"expense_rows", len(expenses),
		log.FieldDuration, time.Since(start).Milliseconds())
	return p, nil
}

func (s *Service) Stats() Stats {
	st := Stats{Builds: s.builds.Load(), Failures: s.failures.Load()}
	if s.cache != nil {
		st.Cache = s.cache.Stats()
	}
	return st
}

// Variant reports the schema shape the service reads.
func (s *Service) Variant() schema.Variant {
	return s.extractor.Variant()
}
