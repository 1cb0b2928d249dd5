package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"go.uber.org/zap"
)

type UserUseCase struct {
	Repo     entity.UserRepositoryInterface
	Validate *validator.Validate
	Logger   *zap.Logger
}

func NewUserUseCase(repo entity.UserRepositoryInterface, logger *zap.Logger) *UserUseCase {
	return &UserUseCase{Repo: repo, Validate: NewValidator(), Logger: logger}
}

// ListUsers returns every profile ordered by name.
func (uc *UserUseCase) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, dbError("listar usuários", err)
	}
	for i := range users {
		if users[i].Avatar == "" {
			users[i].Avatar = entity.DefaultAvatar(users[i].Name)
		}
	}
	return users, nil
}

func (uc *UserUseCase) UpdateUser(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	if err := validateStruct(uc.Validate, patch); err != nil {
		return nil, err
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, &DomainError{Code: CodeValidation, Message: "validation failed: role: is not a known value"}
	}

	if err := uc.Repo.Update(ctx, id, patch); err != nil {
		return nil, userError("atualizar usuário", err)
	}
	user, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, userError("buscar usuário", err)
	}
	if user.Avatar == "" {
		user.Avatar = entity.DefaultAvatar(user.Name)
	}
	uc.Logger.Info("✅ usuário atualizado", zap.String("user_id", id))
	return user, nil
}

func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return userError("excluir usuário", err)
	}
	uc.Logger.Info("🗑️ usuário excluído", zap.String("user_id", id))
	return nil
}

func userError(op string, err error) error {
	return repoError(op, CodeUserNotFound, "usuário não encontrado", err)
}
