package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/report"
	"github.com/xavierca1/fortis-crm/internal/usecase"
)

type MockLeadService struct{ mock.Mock }

func (m *MockLeadService) ListPipeline(ctx context.Context, offset, limit int) (*usecase.LeadPage, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LeadPage), args.Error(1)
}

func (m *MockLeadService) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadService) CreateLead(ctx context.Context, input usecase.CreateLeadInput, actor string) (*entity.Lead, error) {
	args := m.Called(ctx, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadService) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch, actor string) (*entity.Lead, error) {
	args := m.Called(ctx, id, patch, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadService) MoveLead(ctx context.Context, id string, status entity.LeadStatus, actor string) (*entity.Lead, error) {
	args := m.Called(ctx, id, status, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadService) DeleteLead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeadService) AddNote(ctx context.Context, id, note, actor string) (*entity.LeadHistory, error) {
	args := m.Called(ctx, id, note, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadHistory), args.Error(1)
}

func (m *MockLeadService) AddSale(ctx context.Context, id string, input usecase.AddSaleInput, actor string) (*entity.Lead, error) {
	args := m.Called(ctx, id, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadService) History(ctx context.Context, id string) ([]entity.LeadHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeadHistory), args.Error(1)
}

type MockClientService struct{ mock.Mock }

func (m *MockClientService) ListClients(ctx context.Context, f usecase.ClientFilter, p usecase.Page) (*usecase.ListResult[entity.Lead], error) {
	args := m.Called(ctx, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListResult[entity.Lead]), args.Error(1)
}

func (m *MockClientService) FilterOptions(ctx context.Context) (*usecase.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.FilterOptions), args.Error(1)
}

type MockSalesService struct{ mock.Mock }

func (m *MockSalesService) ListSales(ctx context.Context, search string, p usecase.Page) (*usecase.ListResult[usecase.SaleRow], error) {
	args := m.Called(ctx, search, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListResult[usecase.SaleRow]), args.Error(1)
}

type MockStatsService struct{ mock.Mock }

func (m *MockStatsService) GlobalStats(ctx context.Context, token string, custom report.CustomRange) (*report.GlobalStats, error) {
	args := m.Called(ctx, token, custom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.GlobalStats), args.Error(1)
}

type MockTrafficService struct{ mock.Mock }

func (m *MockTrafficService) ListTraffic(ctx context.Context, token string, custom report.CustomRange, f usecase.TrafficFilter, p usecase.Page) (*usecase.TrafficReport, error) {
	args := m.Called(ctx, token, custom, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TrafficReport), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockSettingsService struct{ mock.Mock }

func (m *MockSettingsService) GetCompany(ctx context.Context) (*entity.CompanySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CompanySettings), args.Error(1)
}

func (m *MockSettingsService) UpdateCompany(ctx context.Context, patch entity.SettingsPatch) (*entity.CompanySettings, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CompanySettings), args.Error(1)
}

func (m *MockSettingsService) ListTags(ctx context.Context) ([]entity.ConfigTag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ConfigTag), args.Error(1)
}

func (m *MockSettingsService) AddTag(ctx context.Context, in usecase.TagInput) (*entity.ConfigTag, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ConfigTag), args.Error(1)
}

func (m *MockSettingsService) UpdateTag(ctx context.Context, id string, in usecase.TagInput) (*entity.ConfigTag, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ConfigTag), args.Error(1)
}

func (m *MockSettingsService) RemoveTag(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSettingsService) ListNames(ctx context.Context, v entity.Vocabulary) ([]string, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSettingsService) AddName(ctx context.Context, v entity.Vocabulary, name string) ([]string, error) {
	args := m.Called(ctx, v, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSettingsService) RenameName(ctx context.Context, v entity.Vocabulary, oldName, newName string) error {
	return m.Called(ctx, v, oldName, newName).Error(0)
}

func (m *MockSettingsService) RemoveName(ctx context.Context, v entity.Vocabulary, name string) error {
	return m.Called(ctx, v, name).Error(0)
}
