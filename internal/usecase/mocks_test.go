package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/infra/mail"
	"github.com/xavierca1/fortis-crm/internal/infra/queue"
	"github.com/xavierca1/fortis-crm/internal/report"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

var nopLogger = zap.NewNop()

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) ListByStatus(ctx context.Context, statuses []entity.LeadStatus, offset, limit int) ([]entity.Lead, error) {
	args := m.Called(ctx, statuses, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) PurchasesByLeadIDs(ctx context.Context, ids []string) (map[string][]entity.Purchase, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]entity.Purchase), args.Error(1)
}

func (m *MockLeadRepository) RegisterSale(ctx context.Context, sale entity.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockHistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, entries ...entity.LeadHistory) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByLead(ctx context.Context, leadID string) ([]entity.LeadHistory, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeadHistory), args.Error(1)
}

func (m *MockHistoryRepository) PurchasesByLead(ctx context.Context, leadID string) ([]entity.Purchase, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Purchase), args.Error(1)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetCompany(ctx context.Context) (*entity.CompanySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CompanySettings), args.Error(1)
}

func (m *MockSettingsRepository) UpdateCompany(ctx context.Context, patch entity.SettingsPatch) error {
	args := m.Called(ctx, patch)
	return args.Error(0)
}

func (m *MockSettingsRepository) ListTags(ctx context.Context) ([]entity.ConfigTag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ConfigTag), args.Error(1)
}

func (m *MockSettingsRepository) CreateTag(ctx context.Context, tag *entity.ConfigTag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockSettingsRepository) UpdateTag(ctx context.Context, tag entity.ConfigTag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockSettingsRepository) DeleteTag(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSettingsRepository) ListNames(ctx context.Context, v entity.Vocabulary) ([]string, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSettingsRepository) AddName(ctx context.Context, v entity.Vocabulary, name string) error {
	args := m.Called(ctx, v, name)
	return args.Error(0)
}

func (m *MockSettingsRepository) RenameName(ctx context.Context, v entity.Vocabulary, oldName, newName string) error {
	args := m.Called(ctx, v, oldName, newName)
	return args.Error(0)
}

func (m *MockSettingsRepository) DeleteName(ctx context.Context, v entity.Vocabulary, name string) error {
	args := m.Called(ctx, v, name)
	return args.Error(0)
}

// MockTrafficRepository
type MockTrafficRepository struct {
	mock.Mock
}

func (m *MockTrafficRepository) ListBetween(ctx context.Context, startDate, endDate string) ([]entity.TrafficInvestment, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TrafficInvestment), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendSaleNotification(ctx context.Context, to string, n mail.SaleNotification) error {
	args := m.Called(ctx, to, n)
	return args.Error(0)
}

// MockStatsCache
type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Get(ctx context.Context, key string) (*report.GlobalStats, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*report.GlobalStats), args.Bool(1), args.Error(2)
}

func (m *MockStatsCache) Generation(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsCache) Set(ctx context.Context, key string, gen int64, stats report.GlobalStats) error {
	args := m.Called(ctx, key, gen, stats)
	return args.Error(0)
}

func (m *MockStatsCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStatsReader
type MockStatsReader struct {
	mock.Mock
}

func (m *MockStatsReader) CountLeadsCreated(ctx context.Context, w report.Window) (int, error) {
	args := m.Called(ctx, w)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsReader) LeadStatuses(ctx context.Context) ([]report.StatusRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.StatusRow), args.Error(1)
}

func (m *MockStatsReader) Investment(ctx context.Context, w *report.Window) (decimal.Decimal, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStatsReader) PurchasesBetween(ctx context.Context, w report.Window) ([]entity.Purchase, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Purchase), args.Error(1)
}

func (m *MockStatsReader) AllPurchases(ctx context.Context) ([]entity.Purchase, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Purchase), args.Error(1)
}

func (m *MockStatsReader) CountLeadsByOrigin(ctx context.Context, origin string) (int, error) {
	args := m.Called(ctx, origin)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsReader) LeadActivity(ctx context.Context, w report.Window) ([]report.ActivityRow, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ActivityRow), args.Error(1)
}

func paid(id string, value string, at time.Time) entity.Purchase {
	return entity.Purchase{ID: id, Date: at, Value: decimal.RequireFromString(value), Status: "Pago"}
}

func strPtr(s string) *string { return &s }
