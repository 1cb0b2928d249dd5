package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/fortis-crm/internal/report"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type StatsUseCase struct {
	Reader  StatsReader
	Cache   StatsCache
	Metrics Metrics
	Logger  *zap.Logger
	Now     Clock
}

func NewStatsUseCase(reader StatsReader, cache StatsCache, metrics Metrics, logger *zap.Logger, now Clock) *StatsUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &StatsUseCase{Reader: reader, Cache: cache, Metrics: metrics, Logger: logger, Now: now}
}

// GlobalStats computes the dashboard for a period token. All reads must
// succeed; a single failure aborts the call so the caller keeps its previous
// snapshot.
func (uc *StatsUseCase) GlobalStats(ctx context.Context, token string, custom report.CustomRange) (*report.GlobalStats, error) {
	period := report.Resolve(token, custom, uc.Now())
	key := StatsCacheKey(period)

	if uc.Cache != nil {
		cached, ok, err := uc.Cache.Get(ctx, key)
		if err != nil {
			uc.Logger.Warn("⚠️ falha ao ler cache de estatísticas", zap.Error(err))
		}
		uc.Metrics.StatsCacheLookup(ok)
		if ok {
			return cached, nil
		}
	}

	gen, cacheable := uc.generation(ctx)
	stats, err := uc.compute(ctx, period)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := uc.Cache.Set(ctx, key, gen, *stats); err != nil {
			uc.Logger.Warn("⚠️ falha ao gravar cache de estatísticas", zap.Error(err))
		}
	}
	return stats, nil
}

// Refresh recomputes a period and stores it, bypassing the cached value.
func (uc *StatsUseCase) Refresh(ctx context.Context, token string) error {
	period := report.Resolve(token, report.CustomRange{}, uc.Now())
	gen, cacheable := uc.generation(ctx)
	stats, err := uc.compute(ctx, period)
	if err != nil {
		return err
	}
	if !cacheable {
		return nil
	}
	return uc.Cache.Set(ctx, StatsCacheKey(period), gen, *stats)
}

// generation must be read before the first datastore read.
func (uc *StatsUseCase) generation(ctx context.Context) (int64, bool) {
	if uc.Cache == nil {
		return 0, false
	}
	gen, err := uc.Cache.Generation(ctx)
	if err != nil {
		uc.Logger.Warn("⚠️ falha ao ler geração do cache de estatísticas", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (uc *StatsUseCase) compute(ctx context.Context, period report.Period) (*report.GlobalStats, error) {
	in := report.StatsInput{Period: period}
	cur, prev := period.Current, period.Previous

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.TotalLeads, err = uc.Reader.CountLeadsCreated(gctx, cur)
		return wrapRead("leads do período", err)
	})
	g.Go(func() (err error) {
		in.PrevTotalLeads, err = uc.Reader.CountLeadsCreated(gctx, prev)
		return wrapRead("leads do período anterior", err)
	})
	g.Go(func() (err error) {
		in.AllStatuses, err = uc.Reader.LeadStatuses(gctx)
		return wrapRead("status dos leads", err)
	})
	g.Go(func() (err error) {
		in.Investment, err = uc.Reader.Investment(gctx, &cur)
		return wrapRead("investimento do período", err)
	})
	g.Go(func() (err error) {
		in.PrevInvestment, err = uc.Reader.Investment(gctx, &prev)
		return wrapRead("investimento do período anterior", err)
	})
	g.Go(func() (err error) {
		in.PeriodPurchases, err = uc.Reader.PurchasesBetween(gctx, cur)
		return wrapRead("compras do período", err)
	})
	g.Go(func() (err error) {
		in.PrevPeriodPurchases, err = uc.Reader.PurchasesBetween(gctx, prev)
		return wrapRead("compras do período anterior", err)
	})
	g.Go(func() (err error) {
		in.AllPurchases, err = uc.Reader.AllPurchases(gctx)
		return wrapRead("todas as compras", err)
	})
	g.Go(func() (err error) {
		in.AllTimeInvestment, err = uc.Reader.Investment(gctx, nil)
		return wrapRead("investimento total", err)
	})
	g.Go(func() (err error) {
		in.PaidLeadsCount, err = uc.Reader.CountLeadsByOrigin(gctx, report.PaidMediaOrigin)
		return wrapRead("leads de mídia paga", err)
	})
	g.Go(func() (err error) {
		in.PeriodActivity, err = uc.Reader.LeadActivity(gctx, cur)
		return wrapRead("atividade do período", err)
	})

	if err := g.Wait(); err != nil {
		uc.Logger.Error("❌ falha ao calcular estatísticas", zap.String("period", period.Token), zap.Error(err))
		return nil, &TechnicalError{Code: CodeStatsFailed, Message: "falha ao calcular estatísticas", Err: err}
	}

	stats := report.Aggregate(in)
	return &stats, nil
}

func wrapRead(what string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// StatsCacheKey identifies a resolved period. Rolling windows change every
// minute, calendar windows only when the calendar does.
func StatsCacheKey(p report.Period) string {
	return fmt.Sprintf("stats:%s:%d:%d", p.Token,
		p.Current.Start.Truncate(time.Minute).Unix(),
		p.Current.End.Truncate(time.Minute).Unix())
}
