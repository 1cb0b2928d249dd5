package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultPeriod é o período aberto pelo dashboard sem filtro.
const DefaultPeriod = "este_mes"

type StatsRefresher interface {
	Refresh(ctx context.Context, token string) error
}

// StatsWarmer recalcula o dashboard do período padrão em intervalo fixo,
// deixando o cache quente para a primeira abertura.
type StatsWarmer struct {
	stats        StatsRefresher
	logger       *zap.Logger
	tickInterval time.Duration
	tokens       []string
}

func NewStatsWarmer(stats StatsRefresher, logger *zap.Logger, interval time.Duration, tokens ...string) *StatsWarmer {
	if len(tokens) == 0 {
		tokens = []string{DefaultPeriod}
	}
	return &StatsWarmer{
		stats:        stats,
		logger:       logger,
		tickInterval: interval,
		tokens:       tokens,
	}
}

func (w *StatsWarmer) Start(ctx context.Context) {
	w.logger.Info("🕒 Stats warmer iniciado", zap.Duration("interval", w.tickInterval), zap.Strings("periods", w.tokens))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.warm(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ Stats warmer encerrado")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *StatsWarmer) warm(ctx context.Context) {
	for _, token := range w.tokens {
		start := time.Now()
		if err := w.stats.Refresh(ctx, token); err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Warn("❌ Erro ao aquecer estatísticas", zap.String("period", token), zap.Error(err))
			continue
		}
		w.logger.Debug("✅ Estatísticas atualizadas", zap.String("period", token), zap.Duration("took", time.Since(start)))
	}
}
