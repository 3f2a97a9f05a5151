package main

import (
	"context"
	"flag"
	"log"

	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	"inventory-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runMigrate := flag.Bool("migrate", false, "Применить миграции схемы")
	runAdmin := flag.Bool("admin", false, "Создать администратора из SEED_ADMIN_*")
	runRoles := flag.Bool("roles", false, "Создать логины БД для auth-подключения и ролей")
	runAll := flag.Bool("all", false, "Запустить всё (эквивалентно -migrate -admin -roles)")

	flag.Parse()

	if !*runMigrate && !*runAdmin && !*runRoles && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -migrate -admin")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	ctx := context.Background()
	cfg := config.New()
	dbPool, err := postgresql.ConnectDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	log.Println("======================================================")

	if *runAll || *runMigrate {
		if err := postgresql.Migrate(ctx, dbPool); err != nil {
			log.Fatalf("❌ Ошибка миграции: %v", err)
		}
		log.Println("✅ Миграции применены.")
		log.Println("======================================================")
	}

	if *runAll || *runAdmin {
		seeders.SeedAdminUser(ctx, dbPool, cfg)
		log.Println("======================================================")
	}

	// Права выдаются на уже созданные таблицы, поэтому после миграций.
	if *runAll || *runRoles {
		seeders.SeedDatabaseLogins(ctx, dbPool, cfg)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
