package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/repositories"
	"inventory-system/internal/repositories/postgres"
	"inventory-system/pkg/config"
	"inventory-system/pkg/utils"
)

// SeedAdminUser создаёт первого администратора приложения.
func SeedAdminUser(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) {
	log.Println("▶️  Запуск создания администратора...")

	policy := repositories.NewRegistrationPolicy(false, nil, zap.NewNop())
	users := postgres.NewStorage(db, policy, zap.NewNop()).Users()
	if err := SeedAdmin(ctx, users, utils.NewPasswordHasher(cfg.Auth.BcryptCost), cfg.Seeder); err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}
	log.Println("✅ Создание администратора завершено!")
}

// SeedDatabaseLogins настраивает логины БД для переключения ролей.
func SeedDatabaseLogins(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) {
	log.Println("▶️  Запуск настройки логинов ролей...")

	if err := SeedRoleLogins(ctx, db, cfg.Database); err != nil {
		log.Fatalf("❌ Ошибка настройки логинов ролей: %v", err)
	}
	log.Println("✅ Настройка логинов ролей завершена!")
}
