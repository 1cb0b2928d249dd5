package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/infra/queue"
	"go.uber.org/zap"
)

const DefaultPipelinePageSize = 100

type LeadUseCase struct {
	Repo        entity.LeadRepositoryInterface
	HistoryRepo entity.HistoryRepositoryInterface
	Events      EventPublisher
	Cache       StatsCache
	Metrics     Metrics
	Validate    *validator.Validate
	Logger      *zap.Logger
	Now         Clock
	PageSize    int
}

func NewLeadUseCase(
	repo entity.LeadRepositoryInterface,
	history entity.HistoryRepositoryInterface,
	events EventPublisher,
	cache StatsCache,
	metrics Metrics,
	logger *zap.Logger,
	now Clock,
) *LeadUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &LeadUseCase{
		Repo:        repo,
		HistoryRepo: history,
		Events:      events,
		Cache:       cache,
		Metrics:     metrics,
		Validate:    NewValidator(),
		Logger:      logger,
		Now:         now,
		PageSize:    DefaultPipelinePageSize,
	}
}

// ListPipeline loads one page of leads still in the sales funnel, newest
// first, each classified at the current time. When purchases cannot be
// loaded the page is still returned, without them.
func (uc *LeadUseCase) ListPipeline(ctx context.Context, offset, limit int) (*LeadPage, error) {
	page := Page{Offset: offset, Limit: limit}.normalize(uc.PageSize)

	leads, err := uc.Repo.ListByStatus(ctx, entity.ListablePipelineStatuses, page.Offset, page.Limit)
	if err != nil {
		return nil, dbError("listar leads", err)
	}

	uc.attachPurchases(ctx, leads)
	return &LeadPage{
		Leads:   classifyAll(leads, uc.Now(), uc.Metrics, uc.Logger),
		Offset:  page.Offset,
		HasMore: len(leads) == page.Limit,
	}, nil
}

func (uc *LeadUseCase) attachPurchases(ctx context.Context, leads []entity.Lead) {
	if len(leads) == 0 {
		return
	}
	ids := make([]string, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
	}

	byLead, err := uc.Repo.PurchasesByLeadIDs(ctx, ids)
	if err != nil {
		uc.Logger.Warn("⚠️ falha ao buscar compras, seguindo sem histórico de compras", zap.Error(err))
		return
	}
	for i := range leads {
		leads[i].Purchases = byLead[leads[i].ID]
	}
}

func (uc *LeadUseCase) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, leadError("buscar lead", err)
	}
	classified := lead.Classify(uc.Now())
	return &classified, nil
}

func (uc *LeadUseCase) CreateLead(ctx context.Context, input CreateLeadInput, actor string) (*entity.Lead, error) {
	if err := validateStruct(uc.Validate, input); err != nil {
		return nil, err
	}

	now := uc.Now()
	status := input.Status
	if status == "" {
		status = entity.StatusNovo
	}
	lead := &entity.Lead{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(input.Name),
		Email:            strings.TrimSpace(input.Email),
		Phone:            input.Phone,
		Status:           status,
		AfterSalesStatus: input.AfterSalesStatus,
		ResponsibleID:    input.ResponsibleID,
		Tags:             input.Tags,
		Channel:          input.Channel,
		Origin:           input.Origin,
		UF:               strings.ToUpper(input.UF),
		Notes:            input.Notes,
		CPF:              input.CPF,
		Address:          input.Address,
		AddressNumber:    input.AddressNumber,
		District:         input.District,
		City:             input.City,
		CreatedAt:        now,
	}
	note := entity.NewNoteEntry(lead.ID, entity.LeadCreatedNote, actor, now)

	txn := NewTransaction(uc.Logger)
	txn.AddOperation("create_lead", func(ctx context.Context) error {
		return uc.Repo.Create(ctx, lead)
	})
	txn.AddCompensation("delete_lead", func(ctx context.Context) error {
		return uc.Repo.Delete(ctx, lead.ID)
	})
	txn.AddOperation("append_history", func(ctx context.Context) error {
		return uc.HistoryRepo.Append(ctx, note)
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, dbError("criar lead", err)
	}

	uc.Metrics.LeadCreated()
	uc.Logger.Info("✅ lead criado", zap.String("lead_id", lead.ID), zap.String("actor", actor))
	uc.publish(ctx, queue.LeadEvent{
		Type:          queue.EventLeadCreated,
		LeadID:        lead.ID,
		LeadName:      lead.Name,
		ResponsibleID: lead.ResponsibleID,
		NewStatus:     string(lead.Status),
		ActorID:       actor,
		OccurredAt:    now,
	})
	uc.invalidate(ctx)

	created := lead.Classify(now)
	return &created, nil
}

// UpdateLead applies a partial update and records one EDIT entry per changed
// field. If the history write fails the previous row is restored.
func (uc *LeadUseCase) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch, actor string) (*entity.Lead, error) {
	if err := uc.validatePatch(patch); err != nil {
		return nil, err
	}

	before, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, leadError("buscar lead", err)
	}

	now := uc.Now()
	after := patch.Apply(*before)
	entries := entity.DiffLeads(*before, after, actor, now)
	if len(entries) == 0 && slices.Equal(before.Tags, after.Tags) {
		unchanged := before.Classify(now)
		return &unchanged, nil
	}

	txn := NewTransaction(uc.Logger)
	txn.AddOperation("update_lead", func(ctx context.Context) error {
		return uc.Repo.Update(ctx, &after)
	})
	txn.AddCompensation("restore_lead", func(ctx context.Context) error {
		return uc.Repo.Update(ctx, before)
	})
	if len(entries) > 0 {
		txn.AddOperation("append_history", func(ctx context.Context) error {
			return uc.HistoryRepo.Append(ctx, entries...)
		})
	}

	if err := txn.Execute(ctx); err != nil {
		return nil, dbError("atualizar lead", err)
	}

	if before.Status != after.Status {
		uc.Metrics.StatusChanged(before.Status, after.Status)
		uc.publish(ctx, queue.LeadEvent{
			Type:          queue.EventLeadStatusChanged,
			LeadID:        after.ID,
			LeadName:      after.Name,
			ResponsibleID: after.ResponsibleID,
			OldStatus:     string(before.Status),
			NewStatus:     string(after.Status),
			ActorID:       actor,
			OccurredAt:    now,
		})
	}
	uc.invalidate(ctx)

	updated := after.Classify(now)
	return &updated, nil
}

func (uc *LeadUseCase) MoveLead(ctx context.Context, id string, status entity.LeadStatus, actor string) (*entity.Lead, error) {
	if err := validateStruct(uc.Validate, MoveLeadInput{Status: status}); err != nil {
		return nil, err
	}
	return uc.UpdateLead(ctx, id, entity.LeadPatch{Status: &status}, actor)
}

func (uc *LeadUseCase) DeleteLead(ctx context.Context, id string) error {
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return leadError("excluir lead", err)
	}
	uc.Logger.Info("🗑️ lead excluído", zap.String("lead_id", id))
	uc.invalidate(ctx)
	return nil
}

func (uc *LeadUseCase) AddNote(ctx context.Context, id, note, actor string) (*entity.LeadHistory, error) {
	if err := validateStruct(uc.Validate, AddNoteInput{Note: strings.TrimSpace(note)}); err != nil {
		return nil, err
	}
	if _, err := uc.Repo.FindByID(ctx, id); err != nil {
		return nil, leadError("buscar lead", err)
	}

	entry := entity.NewNoteEntry(id, strings.TrimSpace(note), actor, uc.Now())
	if err := uc.HistoryRepo.Append(ctx, entry); err != nil {
		return nil, dbError("registrar nota", err)
	}
	return &entry, nil
}

// AddSale records a paid purchase. The purchase, the move to GANHO and the
// SALE history entry commit together.
func (uc *LeadUseCase) AddSale(ctx context.Context, id string, input AddSaleInput, actor string) (*entity.Lead, error) {
	if err := validateStruct(uc.Validate, input); err != nil {
		return nil, err
	}
	if !input.Value.IsPositive() {
		return nil, &DomainError{Code: CodeValidation, Message: "validation failed: value: must be greater than 0"}
	}

	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, leadError("buscar lead", err)
	}

	now := uc.Now()
	purchase := entity.Purchase{
		ID:         uuid.New().String(),
		LeadID:     id,
		Date:       now,
		Value:      input.Value,
		Status:     entity.DefaultPurchaseStatus,
		LeadOrigin: lead.Origin,
	}
	description := fmt.Sprintf("Venda realizada no valor de %s.", FormatBRL(input.Value))
	if note := strings.TrimSpace(input.Note); note != "" {
		description += " " + note
	}

	sale := entity.Sale{Purchase: purchase, History: entity.NewSaleEntry(id, description, actor, now)}
	if err := uc.Repo.RegisterSale(ctx, sale); err != nil {
		return nil, leadError("registrar venda", err)
	}

	uc.Metrics.SaleRegistered(input.Value)
	uc.Logger.Info("💰 venda registrada",
		zap.String("lead_id", id), zap.String("value", input.Value.StringFixed(2)), zap.String("actor", actor))
	uc.publish(ctx, queue.LeadEvent{
		Type:          queue.EventSaleRegistered,
		LeadID:        id,
		LeadName:      lead.Name,
		ResponsibleID: lead.ResponsibleID,
		OldStatus:     string(lead.Status),
		NewStatus:     string(entity.StatusGanho),
		Value:         input.Value,
		Note:          strings.TrimSpace(input.Note),
		ActorID:       actor,
		OccurredAt:    now,
	})
	uc.invalidate(ctx)

	lead.Status = entity.StatusGanho
	lead.LastPurchaseAt = &now
	lead.Purchases = append(lead.Purchases, purchase)
	classified := lead.Classify(now)
	return &classified, nil
}

// History merges activity entries with the lead's purchases, newest first.
func (uc *LeadUseCase) History(ctx context.Context, id string) ([]entity.LeadHistory, error) {
	entries, err := uc.HistoryRepo.ListByLead(ctx, id)
	if err != nil {
		return nil, dbError("buscar histórico", err)
	}
	purchases, err := uc.HistoryRepo.PurchasesByLead(ctx, id)
	if err != nil {
		return nil, dbError("buscar compras", err)
	}

	merged := make([]entity.LeadHistory, 0, len(entries)+len(purchases))
	merged = append(merged, entries...)
	for _, p := range purchases {
		merged = append(merged, entity.LeadHistory{
			ID:          "purchase-" + p.ID,
			LeadID:      id,
			Type:        entity.HistorySale,
			Description: fmt.Sprintf("Venda realizada no valor de %s.", FormatBRL(p.Value)),
			UserID:      entity.SystemActor,
			Timestamp:   p.Date,
		})
	}
	slices.SortStableFunc(merged, func(a, b entity.LeadHistory) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return merged, nil
}

func (uc *LeadUseCase) validatePatch(p entity.LeadPatch) error {
	var msgs []string
	check := func(field string, v *string, tag string) {
		if v == nil {
			return
		}
		if err := uc.Validate.Var(*v, tag); err != nil {
			msgs = append(msgs, ValidationError{field, "is invalid"}.Error())
		}
	}
	check("name", p.Name, "required,min=2,max=200")
	check("email", p.Email, "omitempty,email")
	check("phone", p.Phone, "omitempty,phone_br")
	check("uf", p.UF, "omitempty,len=2")
	check("cpf", p.CPF, "omitempty,cpf")
	if p.Status != nil && !p.Status.Valid() {
		msgs = append(msgs, ValidationError{"status", "is not a known value"}.Error())
	}
	if p.AfterSalesStatus != nil && *p.AfterSalesStatus != "" && !p.AfterSalesStatus.IsAfterSales() {
		msgs = append(msgs, ValidationError{"after_sales_status", "is not a known value"}.Error())
	}
	if len(msgs) == 0 {
		return nil
	}
	return &DomainError{Code: CodeValidation, Message: "validation failed: " + strings.Join(msgs, ", ")}
}

// publish never fails the caller; the write it reports is already committed.
func (uc *LeadUseCase) publish(ctx context.Context, event queue.LeadEvent) {
	if uc.Events == nil {
		return
	}
	if err := uc.Events.PublishLeadEvent(ctx, event); err != nil {
		uc.Logger.Warn("⚠️ falha ao publicar evento", zap.String("type", string(event.Type)),
			zap.String("lead_id", event.LeadID), zap.Error(err))
	}
}

func (uc *LeadUseCase) invalidate(ctx context.Context) {
	invalidateStats(ctx, uc.Cache, uc.Logger)
}

func invalidateStats(ctx context.Context, cache StatsCache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("⚠️ falha ao invalidar cache de estatísticas", zap.Error(err))
	}
}

func leadError(op string, err error) error {
	return repoError(op, CodeLeadNotFound, "lead não encontrado", err)
}

// classifyAll classifies every lead at now and reports purchases whose status
// is in neither payment list.
func classifyAll(leads []entity.Lead, now time.Time, metrics Metrics, logger *zap.Logger) []entity.Lead {
	out := make([]entity.Lead, len(leads))
	unclassified := 0
	for i, l := range leads {
		for _, p := range l.Purchases {
			if p.Payment() == entity.PaymentUnclassified {
				unclassified++
				logger.Debug("compra com status fora das listas de pagamento",
					zap.String("lead_id", l.ID), zap.String("purchase_id", p.ID), zap.String("status", p.Status))
			}
		}
		out[i] = l.Classify(now)
	}
	if unclassified > 0 {
		metrics.PurchasesUnclassified(unclassified)
	}
	return out
}
