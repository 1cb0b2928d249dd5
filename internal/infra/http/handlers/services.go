package handlers

import (
	"context"

	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/report"
	"github.com/xavierca1/fortis-crm/internal/usecase"
)

type LeadService interface {
	ListPipeline(ctx context.Context, offset, limit int) (*usecase.LeadPage, error)
	GetLead(ctx context.Context, id string) (*entity.Lead, error)
	CreateLead(ctx context.Context, input usecase.CreateLeadInput, actor string) (*entity.Lead, error)
	UpdateLead(ctx context.Context, id string, patch entity.LeadPatch, actor string) (*entity.Lead, error)
	MoveLead(ctx context.Context, id string, status entity.LeadStatus, actor string) (*entity.Lead, error)
	DeleteLead(ctx context.Context, id string) error
	AddNote(ctx context.Context, id, note, actor string) (*entity.LeadHistory, error)
	AddSale(ctx context.Context, id string, input usecase.AddSaleInput, actor string) (*entity.Lead, error)
	History(ctx context.Context, id string) ([]entity.LeadHistory, error)
}

type ClientService interface {
	ListClients(ctx context.Context, f usecase.ClientFilter, p usecase.Page) (*usecase.ListResult[entity.Lead], error)
	FilterOptions(ctx context.Context) (*usecase.FilterOptions, error)
}

type SalesService interface {
	ListSales(ctx context.Context, search string, p usecase.Page) (*usecase.ListResult[usecase.SaleRow], error)
}

type StatsService interface {
	GlobalStats(ctx context.Context, token string, custom report.CustomRange) (*report.GlobalStats, error)
}

type TrafficService interface {
	ListTraffic(ctx context.Context, token string, custom report.CustomRange, f usecase.TrafficFilter, p usecase.Page) (*usecase.TrafficReport, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	UpdateUser(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type SettingsService interface {
	GetCompany(ctx context.Context) (*entity.CompanySettings, error)
	UpdateCompany(ctx context.Context, patch entity.SettingsPatch) (*entity.CompanySettings, error)
	ListTags(ctx context.Context) ([]entity.ConfigTag, error)
	AddTag(ctx context.Context, in usecase.TagInput) (*entity.ConfigTag, error)
	UpdateTag(ctx context.Context, id string, in usecase.TagInput) (*entity.ConfigTag, error)
	RemoveTag(ctx context.Context, id string) error
	ListNames(ctx context.Context, v entity.Vocabulary) ([]string, error)
	AddName(ctx context.Context, v entity.Vocabulary, name string) ([]string, error)
	RenameName(ctx context.Context, v entity.Vocabulary, oldName, newName string) error
	RemoveName(ctx context.Context, v entity.Vocabulary, name string) error
}
