package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"go.uber.org/zap"
)

type TagInput struct {
	Label string `json:"label" validate:"required,max=50"`
	Color string `json:"color" validate:"hexcolor_or_empty"`
}

type NameInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type SettingsUseCase struct {
	Repo     entity.SettingsRepositoryInterface
	Validate *validator.Validate
	Logger   *zap.Logger
}

func NewSettingsUseCase(repo entity.SettingsRepositoryInterface, logger *zap.Logger) *SettingsUseCase {
	return &SettingsUseCase{Repo: repo, Validate: NewValidator(), Logger: logger}
}

func (uc *SettingsUseCase) GetCompany(ctx context.Context) (*entity.CompanySettings, error) {
	s, err := uc.Repo.GetCompany(ctx)
	if err != nil {
		return nil, repoError("buscar configurações", CodeSettingsFailed, "configurações não encontradas", err)
	}
	return s, nil
}

func (uc *SettingsUseCase) UpdateCompany(ctx context.Context, patch entity.SettingsPatch) (*entity.CompanySettings, error) {
	if err := validateStruct(uc.Validate, patch); err != nil {
		return nil, err
	}
	if !patch.Empty() {
		if err := uc.Repo.UpdateCompany(ctx, patch); err != nil {
			return nil, dbError("atualizar configurações", err)
		}
		uc.Logger.Info("⚙️ configurações da empresa atualizadas")
	}
	return uc.GetCompany(ctx)
}

func (uc *SettingsUseCase) ListTags(ctx context.Context) ([]entity.ConfigTag, error) {
	tags, err := uc.Repo.ListTags(ctx)
	if err != nil {
		return nil, dbError("listar tags", err)
	}
	return tags, nil
}

func (uc *SettingsUseCase) AddTag(ctx context.Context, in TagInput) (*entity.ConfigTag, error) {
	in.Label = strings.TrimSpace(in.Label)
	if err := validateStruct(uc.Validate, in); err != nil {
		return nil, err
	}
	if in.Color == "" {
		in.Color = entity.DefaultTagColor
	}
	tag := &entity.ConfigTag{Label: in.Label, Color: in.Color}
	if err := uc.Repo.CreateTag(ctx, tag); err != nil {
		return nil, repoError("criar tag", CodeTagNotFound, "tag não encontrada", err)
	}
	return tag, nil
}

func (uc *SettingsUseCase) UpdateTag(ctx context.Context, id string, in TagInput) (*entity.ConfigTag, error) {
	in.Label = strings.TrimSpace(in.Label)
	if err := validateStruct(uc.Validate, in); err != nil {
		return nil, err
	}
	if in.Color == "" {
		in.Color = entity.DefaultTagColor
	}
	tag := entity.ConfigTag{ID: id, Label: in.Label, Color: in.Color}
	if err := uc.Repo.UpdateTag(ctx, tag); err != nil {
		return nil, repoError("atualizar tag", CodeTagNotFound, "tag não encontrada", err)
	}
	return &tag, nil
}

func (uc *SettingsUseCase) RemoveTag(ctx context.Context, id string) error {
	if err := uc.Repo.DeleteTag(ctx, id); err != nil {
		return repoError("remover tag", CodeTagNotFound, "tag não encontrada", err)
	}
	return nil
}

func (uc *SettingsUseCase) ListNames(ctx context.Context, v entity.Vocabulary) ([]string, error) {
	names, err := uc.Repo.ListNames(ctx, v)
	if err != nil {
		return nil, dbError("listar "+string(v), err)
	}
	return names, nil
}

// AddName adds a channel or origin. Adding an existing name is a no-op.
func (uc *SettingsUseCase) AddName(ctx context.Context, v entity.Vocabulary, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if err := validateStruct(uc.Validate, NameInput{Name: name}); err != nil {
		return nil, err
	}

	names, err := uc.ListNames(ctx, v)
	if err != nil {
		return nil, err
	}
	if slices.Contains(names, name) {
		return names, nil
	}
	if err := uc.Repo.AddName(ctx, v, name); err != nil {
		return nil, repoError("adicionar "+string(v), CodeNameNotFound, "nome não encontrado", err)
	}
	return append(names, name), nil
}

func (uc *SettingsUseCase) RenameName(ctx context.Context, v entity.Vocabulary, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if err := validateStruct(uc.Validate, NameInput{Name: newName}); err != nil {
		return err
	}
	if err := uc.Repo.RenameName(ctx, v, oldName, newName); err != nil {
		return repoError("renomear "+string(v), CodeNameNotFound, "nome não encontrado", err)
	}
	return nil
}

func (uc *SettingsUseCase) RemoveName(ctx context.Context, v entity.Vocabulary, name string) error {
	if err := uc.Repo.DeleteName(ctx, v, name); err != nil {
		return repoError("remover "+string(v), CodeNameNotFound, "nome não encontrado", err)
	}
	return nil
}
