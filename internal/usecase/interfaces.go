package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/infra/mail"
	"github.com/xavierca1/fortis-crm/internal/infra/queue"
	"github.com/xavierca1/fortis-crm/internal/report"
)

type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error
}

type EmailService interface {
	SendSaleNotification(ctx context.Context, to string, n mail.SaleNotification) error
}

// StatsReader is the set of dashboard reads. Every method is independent so
// they can run concurrently.
type StatsReader interface {
	CountLeadsCreated(ctx context.Context, w report.Window) (int, error)
	LeadStatuses(ctx context.Context) ([]report.StatusRow, error)
	// Investment sums ad spend between two dates. A nil window means all time.
	Investment(ctx context.Context, w *report.Window) (decimal.Decimal, error)
	PurchasesBetween(ctx context.Context, w report.Window) ([]entity.Purchase, error)
	AllPurchases(ctx context.Context) ([]entity.Purchase, error)
	CountLeadsByOrigin(ctx context.Context, origin string) (int, error)
	LeadActivity(ctx context.Context, w report.Window) ([]report.ActivityRow, error)
}

// StatsCache keeps computed dashboards until the next mutation. Every
// Invalidate starts a new generation; Set drops the value when gen is no
// longer the current generation, so a result computed before a mutation is
// never stored after it.
type StatsCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string) (*report.GlobalStats, bool, error)
	Set(ctx context.Context, key string, gen int64, stats report.GlobalStats) error
	Invalidate(ctx context.Context) error
}

// Metrics receives domain counters. The HTTP layer provides the Prometheus
// implementation.
type Metrics interface {
	LeadCreated()
	SaleRegistered(value decimal.Decimal)
	StatusChanged(from, to entity.LeadStatus)
	PurchasesUnclassified(n int)
	StatsCacheLookup(hit bool)
}

type nopMetrics struct{}

func (nopMetrics) LeadCreated()                         {}
func (nopMetrics) SaleRegistered(decimal.Decimal)       {}
func (nopMetrics) StatusChanged(_, _ entity.LeadStatus) {}
func (nopMetrics) PurchasesUnclassified(int)            {}
func (nopMetrics) StatsCacheLookup(bool)                {}

// Clock returns the current time in the business timezone.
type Clock func() time.Time

func ClockIn(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}
