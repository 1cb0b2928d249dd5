package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/infra/cache"
	"github.com/xavierca1/fortis-crm/internal/report"
)

func stubReader(r *MockStatsReader) {
	r.On("CountLeadsCreated", mock.Anything, mock.Anything).Return(10, nil)
	stubOtherReads(r)
}

// stubOtherReads cobre todas as leituras exceto CountLeadsCreated.
func stubOtherReads(r *MockStatsReader) {
	inPeriod := fixedNow.Add(-24 * time.Hour)
	r.On("LeadStatuses", mock.Anything).Return([]report.StatusRow{
		{Status: entity.StatusVIP, AfterSales: entity.StatusVIP},
		{Status: entity.StatusNovo},
	}, nil)
	r.On("Investment", mock.Anything, mock.Anything).Return(decimal.NewFromInt(500), nil)
	r.On("PurchasesBetween", mock.Anything, mock.Anything).Return([]entity.Purchase{
		{ID: "p1", LeadID: "l1", Date: inPeriod, Value: decimal.NewFromInt(1000), Status: "Pago", LeadOrigin: report.PaidMediaOrigin},
	}, nil)
	r.On("AllPurchases", mock.Anything).Return([]entity.Purchase{
		{ID: "p1", LeadID: "l1", Date: inPeriod, Value: decimal.NewFromInt(1000), Status: "Pago"},
		{ID: "p2", LeadID: "l2", Date: inPeriod, Value: decimal.NewFromInt(200), Status: "Pago"},
	}, nil)
	r.On("CountLeadsByOrigin", mock.Anything, report.PaidMediaOrigin).Return(4, nil)
	r.On("LeadActivity", mock.Anything, mock.Anything).Return([]report.ActivityRow{
		{Status: entity.StatusVIP, UF: "SP", LastPurchaseAt: inPeriod},
	}, nil)
}

// TestGlobalStatsComputesAndCaches - Cache vazio calcula e grava o resultado
func TestGlobalStatsComputesAndCaches(t *testing.T) {
	reader := new(MockStatsReader)
	stubReader(reader)
	cache := new(MockStatsCache)
	cache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(nil, false, nil)
	cache.On("Generation", mock.Anything).Return(int64(3), nil)
	cache.On("Set", mock.Anything, mock.AnythingOfType("string"), int64(3), mock.Anything).Return(nil)
	uc := NewStatsUseCase(reader, cache, nil, nopLogger, fixedClock)

	stats, err := uc.GlobalStats(context.Background(), report.PeriodThisMonth, report.CustomRange{})

	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalLeads)
	assert.Equal(t, 2, stats.TotalCustomers)
	assert.True(t, stats.TotalSalesValue.Equal(decimal.NewFromInt(1200)))
	assert.True(t, stats.PaidSalesValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, stats.KPIs.ROAS.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 1, stats.StatusCounts[entity.StatusGanho])
	assert.Equal(t, 1, stats.UFCounts["SP"])
	assert.Equal(t, 1, stats.AfterSalesCounts[entity.StatusVIP])
	reader.AssertNumberOfCalls(t, "Investment", 3)
	reader.AssertCalled(t, "Investment", mock.Anything, (*report.Window)(nil))
	cache.AssertExpectations(t)
}

// TestGlobalStatsCacheHit - Valor em cache evita leituras no banco
func TestGlobalStatsCacheHit(t *testing.T) {
	reader := new(MockStatsReader)
	cache := new(MockStatsCache)
	cached := &report.GlobalStats{Snapshot: report.Snapshot{TotalLeads: 42}}
	period := report.Resolve(report.PeriodThisMonth, report.CustomRange{}, fixedNow)
	cache.On("Get", mock.Anything, StatsCacheKey(period)).Return(cached, true, nil)
	uc := NewStatsUseCase(reader, cache, nil, nopLogger, fixedClock)

	stats, err := uc.GlobalStats(context.Background(), report.PeriodThisMonth, report.CustomRange{})

	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalLeads)
	reader.AssertNotCalled(t, "CountLeadsCreated", mock.Anything, mock.Anything)
}

// TestGlobalStatsFailsWhenAnyReadFails - Uma leitura com erro aborta o cálculo
func TestGlobalStatsFailsWhenAnyReadFails(t *testing.T) {
	reader := new(MockStatsReader)
	reader.On("CountLeadsCreated", mock.Anything, mock.Anything).Return(0, nil).Maybe()
	reader.On("LeadStatuses", mock.Anything).Return(nil, errors.New("statement timeout"))
	reader.On("Investment", mock.Anything, mock.Anything).Return(decimal.Zero, nil).Maybe()
	reader.On("PurchasesBetween", mock.Anything, mock.Anything).Return([]entity.Purchase{}, nil).Maybe()
	reader.On("AllPurchases", mock.Anything).Return([]entity.Purchase{}, nil).Maybe()
	reader.On("CountLeadsByOrigin", mock.Anything, mock.Anything).Return(0, nil).Maybe()
	reader.On("LeadActivity", mock.Anything, mock.Anything).Return([]report.ActivityRow{}, nil).Maybe()
	cache := new(MockStatsCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
	cache.On("Generation", mock.Anything).Return(int64(0), nil)
	uc := NewStatsUseCase(reader, cache, nil, nopLogger, fixedClock)

	stats, err := uc.GlobalStats(context.Background(), report.PeriodLast7Days, report.CustomRange{})

	require.Error(t, err)
	assert.Nil(t, stats)
	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeStatsFailed, te.Code)
	assert.Contains(t, err.Error(), "status dos leads")
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestGlobalStatsCacheErrorFallsThrough - Erro no cache não impede o cálculo
func TestGlobalStatsCacheErrorFallsThrough(t *testing.T) {
	reader := new(MockStatsReader)
	stubReader(reader)
	cache := new(MockStatsCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, errors.New("redis down"))
	cache.On("Generation", mock.Anything).Return(int64(0), errors.New("redis down"))
	uc := NewStatsUseCase(reader, cache, nil, nopLogger, fixedClock)

	stats, err := uc.GlobalStats(context.Background(), report.PeriodToday, report.CustomRange{})

	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalLeads)
	// sem geração conhecida o resultado não é gravado
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestRefreshStoresSnapshot - Refresh grava sem consultar o cache
func TestRefreshStoresSnapshot(t *testing.T) {
	reader := new(MockStatsReader)
	stubReader(reader)
	cache := new(MockStatsCache)
	cache.On("Generation", mock.Anything).Return(int64(7), nil)
	cache.On("Set", mock.Anything, mock.Anything, int64(7), mock.Anything).Return(nil)
	uc := NewStatsUseCase(reader, cache, nil, nopLogger, fixedClock)

	require.NoError(t, uc.Refresh(context.Background(), report.PeriodThisMonth))

	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertNumberOfCalls(t, "Set", 1)
}

// TestStatsCacheKeyStableWithinMinute - Mesma janela no mesmo minuto gera a mesma chave
func TestStatsCacheKeyStableWithinMinute(t *testing.T) {
	a := report.Resolve(report.PeriodLast7Days, report.CustomRange{}, fixedNow)
	b := report.Resolve(report.PeriodLast7Days, report.CustomRange{}, fixedNow.Add(20*time.Second))
	c := report.Resolve(report.PeriodLast7Days, report.CustomRange{}, fixedNow.Add(2*time.Minute))

	assert.Equal(t, StatsCacheKey(a), StatsCacheKey(b))
	assert.NotEqual(t, StatsCacheKey(a), StatsCacheKey(c))
}

// TestGlobalStatsDoesNotCacheAcrossInvalidate - Cálculo iniciado antes de uma
// mutação não fica em cache depois da invalidação
func TestGlobalStatsDoesNotCacheAcrossInvalidate(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	reader := new(MockStatsReader)
	reader.On("CountLeadsCreated", mock.Anything, mock.Anything).Return(10, nil).Once().Run(func(mock.Arguments) {
		close(started)
		<-release
	})
	reader.On("CountLeadsCreated", mock.Anything, mock.Anything).Return(10, nil)
	stubOtherReads(reader)

	memory := cache.NewMemoryStatsCache(time.Hour)
	uc := NewStatsUseCase(reader, memory, nil, nopLogger, fixedClock)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := uc.GlobalStats(ctx, report.PeriodThisMonth, report.CustomRange{})
		done <- err
	}()

	<-started
	require.NoError(t, memory.Invalidate(ctx))
	close(release)
	require.NoError(t, <-done)

	period := report.Resolve(report.PeriodThisMonth, report.CustomRange{}, fixedNow)
	_, ok, err := memory.Get(ctx, StatsCacheKey(period))
	require.NoError(t, err)
	assert.False(t, ok, "resultado anterior à mutação não pode ficar em cache")

	// o cálculo seguinte, já na nova geração, volta a ser gravado
	_, err = uc.GlobalStats(ctx, report.PeriodThisMonth, report.CustomRange{})
	require.NoError(t, err)
	_, ok, _ = memory.Get(ctx, StatsCacheKey(period))
	assert.True(t, ok)
}
