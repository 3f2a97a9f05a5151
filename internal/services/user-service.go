package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context) ([]entities.PublicUser, error)
	FindUser(ctx context.Context, id uint64) (*entities.PublicUser, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.PublicUser, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.PublicUser, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	storage repositories.Storage
	hasher  utils.PasswordHasher
	logger  *zap.Logger
}

func NewUserService(storage repositories.Storage, hasher utils.PasswordHasher, logger *zap.Logger) UserServiceInterface {
	return &UserService{storage: storage, hasher: hasher, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context) ([]entities.PublicUser, error) {
	users, err := s.storage.Users().GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	return entities.PublicUsers(users), nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*entities.PublicUser, error) {
	user, err := s.storage.Users().FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.PublicUser, error) {
	hashed, err := s.hasher.Hash(payload.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username: strings.TrimSpace(payload.Username),
		Email:    strings.ToLower(strings.TrimSpace(payload.Email)),
		Password: hashed,
		Role:     entities.Role(payload.Role),
		IsActive: true,
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}
	if dept := utils.SanitizePtr(payload.Department); dept != nil && *dept != "" {
		user.Department.SetValid(*dept)
	}

	created, err := s.storage.Users().CreateUser(ctx, user)
	if err != nil {
		return nil, userConflict(err)
	}
	s.logger.Info("Администратор создал пользователя", zap.Uint64("userID", created.ID), zap.String("role", string(created.Role)))
	public := created.Public()
	return &public, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.PublicUser, error) {
	patch := entities.UserPatch{
		Department: utils.SanitizePtr(payload.Department),
		IsActive:   payload.IsActive,
	}
	if payload.Username != nil {
		username := strings.TrimSpace(*payload.Username)
		patch.Username = &username
	}
	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		patch.Email = &email
	}
	if payload.Role != nil {
		role := entities.Role(*payload.Role)
		patch.Role = &role
	}
	if payload.Password != nil {
		hashed, err := s.hasher.Hash(*payload.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hashed
	}

	updated, err := s.storage.Users().UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, userConflict(err)
	}
	public := updated.Public()
	return &public, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	if current, ok := contextkeys.UserID(ctx); ok && current == id {
		return apperrors.NewHttpError(http.StatusBadRequest, "Нельзя удалить собственную учётную запись", nil, nil)
	}
	existed, err := s.storage.Users().DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return apperrors.ErrNotFound
	}
	s.logger.Info("Пользователь удалён", zap.Uint64("userID", id))
	return nil
}

func userConflict(err error) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.NewHttpError(http.StatusConflict, "Пользователь с таким именем или email уже существует", err, nil)
	}
	return err
}
