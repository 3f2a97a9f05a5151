package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Register(ctx context.Context, payload dto.RegisterDTO) (*entities.PublicUser, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context) (*entities.PublicUser, error)
	ValidateSession(ctx context.Context, userID uint64, role, sessionID string) error
}

type AuthService struct {
	accounts   repositories.UserRepositoryInterface
	authn      Authenticator
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	cfg        config.AuthConfig
	logger     *zap.Logger
	hasher     utils.PasswordHasher
	newSession func() string
}

// NewAuthService. accounts - репозиторий пользователей для регистрации и
// профиля; в режиме переключения ролей он работает через пул приложения.
func NewAuthService(
	accounts repositories.UserRepositoryInterface,
	authn Authenticator,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	cfg config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		accounts:   accounts,
		authn:      authn,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		cfg:        cfg,
		logger:     logger,
		hasher:     utils.NewPasswordHasher(cfg.BcryptCost),
		newSession: func() string { return uuid.New().String() },
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	identifier := strings.TrimSpace(payload.Email)
	logger := s.logger.With(zap.String("login", identifier))

	if err := s.checkLockout(ctx, identifier); err != nil {
		if errors.Is(err, apperrors.ErrAccountLocked) {
			logger.Warn("Вход заблокирован после неудачных попыток")
		}
		return nil, err
	}

	sessionID := s.newSession()
	user, err := s.authn.Authenticate(ctx, identifier, payload.Password, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.handleFailedLoginAttempt(ctx, identifier)
			logger.Info("Неудачная попытка входа")
		}
		return nil, err
	}
	s.resetLoginAttempts(ctx, identifier)

	token, err := s.jwtService.GenerateToken(user.ID, string(user.Role), sessionID)
	if err != nil {
		s.authn.EndSession(sessionID)
		return nil, fmt.Errorf("не удалось выпустить токен сессии: %w", err)
	}

	logger.Info("Пользователь вошёл в систему", zap.Uint64("userID", user.ID), zap.String("role", string(user.Role)))
	return &dto.AuthResponseDTO{
		Token:     token,
		ExpiresIn: int64(s.jwtService.GetTokenTTL().Seconds()),
		User:      *user,
	}, nil
}

// Register: без кода - viewer, с верным кодом - роль из кода, неверный код - отказ.
func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*entities.PublicUser, error) {
	if !s.accounts.IsRegistrationEnabled() {
		return nil, apperrors.ErrRegistrationDisabled
	}

	role := entities.RoleViewer
	if code := strings.TrimSpace(utils.SafeDeref(payload.InvitationCode)); code != "" {
		mapped, ok := s.accounts.RoleForInvitationCode(code)
		if !ok {
			s.logger.Info("Регистрация с неверным кодом приглашения", zap.String("username", payload.Username))
			return nil, apperrors.ErrInvalidInvitation
		}
		role = mapped
	}

	hashed, err := s.hasher.Hash(payload.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username: strings.TrimSpace(payload.Username),
		Email:    strings.ToLower(strings.TrimSpace(payload.Email)),
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if dept := utils.SanitizePtr(payload.Department); dept != nil && *dept != "" {
		user.Department.SetValid(*dept)
	}

	created, err := s.accounts.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewHttpError(http.StatusConflict, "Пользователь с таким именем или email уже существует", err, nil)
		}
		return nil, err
	}

	s.logger.Info("Зарегистрирован новый пользователь", zap.Uint64("userID", created.ID), zap.String("role", string(role)))
	public := created.Public()
	return &public, nil
}

// Logout отзывает сессию до истечения токена и закрывает её подключение.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.ErrUnauthorized
	}
	s.authn.EndSession(sessionID)
	if err := s.cacheRepo.Set(ctx, revokedSessionKey(sessionID), "revoked", s.jwtService.GetTokenTTL()); err != nil {
		s.logger.Error("Не удалось отозвать сессию", zap.String("sessionID", sessionID), zap.Error(err))
		return err
	}
	s.logger.Info("Сессия завершена", zap.String("sessionID", sessionID))
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context) (*entities.PublicUser, error) {
	userID, ok := contextkeys.UserID(ctx)
	if !ok {
		return nil, apperrors.ErrUserIDNotFoundInContext
	}
	user, err := s.accounts.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	public := user.Public()
	return &public, nil
}

// ValidateSession вызывается middleware для каждого защищённого запроса.
// Пользователь перечитывается из хранилища: отключённый пользователь или
// пользователь со сменившейся ролью теряет сессию сразу, а не по истечении токена.
func (s *AuthService) ValidateSession(ctx context.Context, userID uint64, role, sessionID string) error {
	revoked, err := s.cacheHas(ctx, revokedSessionKey(sessionID))
	if err != nil {
		s.logger.Error("Не удалось проверить отзыв сессии", zap.String("sessionID", sessionID), zap.Error(err))
		return err
	}
	if revoked {
		return apperrors.ErrSessionRevoked
	}
	if !s.authn.HasSession(sessionID) {
		return apperrors.ErrNoActiveConnection
	}

	user, err := s.accounts.FindUser(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		s.revoke(ctx, sessionID, "пользователь удалён")
		return apperrors.ErrSessionRevoked
	case err != nil:
		return err
	case !user.IsActive:
		s.revoke(ctx, sessionID, "пользователь отключён")
		return apperrors.ErrSessionRevoked
	case string(user.Role) != role:
		s.revoke(ctx, sessionID, "роль пользователя изменилась")
		return apperrors.ErrSessionRevoked
	}
	return nil
}

// revoke закрывает подключение сессии и помечает её отозванной до истечения токена.
func (s *AuthService) revoke(ctx context.Context, sessionID, reason string) {
	s.authn.EndSession(sessionID)
	if err := s.cacheRepo.Set(ctx, revokedSessionKey(sessionID), "revoked", s.jwtService.GetTokenTTL()); err != nil {
		s.logger.Error("Не удалось отозвать сессию", zap.String("sessionID", sessionID), zap.Error(err))
		return
	}
	s.logger.Info("Сессия отозвана", zap.String("sessionID", sessionID), zap.String("reason", reason))
}

// cacheHas отличает отсутствие ключа от сбоя кеша: сбой возвращается как ошибка.
func (s *AuthService) cacheHas(ctx context.Context, key string) (bool, error) {
	_, err := s.cacheRepo.Get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrCacheMiss):
		return false, nil
	default:
		return false, fmt.Errorf("кеш недоступен: %w", err)
	}
}

func revokedSessionKey(sessionID string) string {
	return "revoked_session:" + sessionID
}

func (s *AuthService) checkLockout(ctx context.Context, identifier string) error {
	locked, err := s.cacheHas(ctx, lockoutKey(identifier))
	if err != nil {
		s.logger.Error("Не удалось проверить блокировку входа", zap.Error(err))
		return err
	}
	if locked {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, identifier string) {
	if s.cfg.MaxLoginAttempts <= 0 {
		return
	}
	attemptsKey := loginAttemptsKey(identifier)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Error("Не удалось учесть неудачную попытку входа", zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		_ = s.cacheRepo.Set(ctx, lockoutKey(identifier), "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, identifier string) {
	_ = s.cacheRepo.Del(ctx, loginAttemptsKey(identifier), lockoutKey(identifier))
}

func loginAttemptsKey(identifier string) string {
	return fmt.Sprintf("login_attempts:%s", strings.ToLower(identifier))
}

func lockoutKey(identifier string) string {
	return fmt.Sprintf("lockout:%s", strings.ToLower(identifier))
}
