package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

// SeedAdmin создаёт первого администратора, если его ещё нет.
// Существующий пользователь с тем же email не изменяется.
func SeedAdmin(ctx context.Context, users repositories.UserRepositoryInterface, hasher utils.PasswordHasher, cfg config.SeederConfig) error {
	log.Println("  - Запуск сидера администратора...")

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		log.Println("    ℹ️  SEED_ADMIN_EMAIL или SEED_ADMIN_PASSWORD не заданы. Пропускаем создание.")
		return nil
	}

	existing, err := users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("ошибка при проверке существования администратора: %w", err)
	}
	if existing != nil {
		log.Println("    ℹ️  Администратор уже существует. Не трогаем.")
		return nil
	}

	hashedPassword, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	username := cfg.AdminUsername
	if username == "" {
		username = "admin"
	}
	created, err := users.CreateUser(ctx, &entities.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     entities.RoleAdmin,
		IsActive: true,
	})
	if err != nil {
		return fmt.Errorf("ошибка при создании администратора: %w", err)
	}

	log.Printf("    - Администратор %s создан (id=%d).", created.Username, created.ID)
	return nil
}
