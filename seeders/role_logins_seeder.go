package seeders

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"

	"inventory-system/internal/entities"
	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
)

var inventoryTables = []string{"assets", "transfers", "repairs"}

// grantStatements - права логина роли на таблицы приложения.
// Каждая следующая роль получает всё, что есть у предыдущей.
func grantStatements(role entities.Role, login string) []string {
	ident := pgx.Identifier{login}.Sanitize()
	tables := strings.Join(inventoryTables, ", ")

	stmts := []string{
		fmt.Sprintf("GRANT USAGE ON SCHEMA public TO %s", ident),
		fmt.Sprintf("GRANT SELECT ON %s TO %s", tables, ident),
		fmt.Sprintf("GRANT SELECT (id, username, email, role, department, is_active, last_login, created_at, updated_at) ON users TO %s", ident),
	}
	if role.AtLeast(entities.RoleOperator) {
		stmts = append(stmts,
			fmt.Sprintf("GRANT INSERT ON transfers, repairs TO %s", ident),
			fmt.Sprintf("GRANT UPDATE ON repairs TO %s", ident),
			fmt.Sprintf("GRANT UPDATE (status, location, updated_at) ON assets TO %s", ident),
			fmt.Sprintf("GRANT USAGE, SELECT ON SEQUENCE transfers_id_seq, repairs_id_seq TO %s", ident),
		)
	}
	if role.AtLeast(entities.RoleManager) {
		stmts = append(stmts,
			fmt.Sprintf("GRANT INSERT, UPDATE, DELETE ON assets TO %s", ident),
			fmt.Sprintf("GRANT DELETE ON repairs TO %s", ident),
			fmt.Sprintf("GRANT USAGE, SELECT ON SEQUENCE assets_id_seq TO %s", ident),
		)
	}
	if role == entities.RoleAdmin {
		stmts = append(stmts,
			fmt.Sprintf("GRANT ALL PRIVILEGES ON %s, users TO %s", tables, ident),
			fmt.Sprintf("GRANT USAGE, SELECT ON ALL SEQUENCES IN SCHEMA public TO %s", ident),
		)
	}
	return stmts
}

// authGrantStatements - auth-логину нужно только читать пользователей и отмечать вход.
func authGrantStatements(login string) []string {
	ident := pgx.Identifier{login}.Sanitize()
	return []string{
		fmt.Sprintf("GRANT USAGE ON SCHEMA public TO %s", ident),
		fmt.Sprintf("GRANT SELECT ON users TO %s", ident),
		fmt.Sprintf("GRANT UPDATE (last_login) ON users TO %s", ident),
	}
}

// quoteLiteral экранирует строку для DDL, где параметры не поддерживаются.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func ensureLogin(ctx context.Context, db postgresql.Querier, login, password string) error {
	var exists bool
	if err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)", login).Scan(&exists); err != nil {
		return fmt.Errorf("ошибка проверки логина %s: %w", login, err)
	}

	verb := "CREATE"
	if exists {
		verb = "ALTER"
	}
	stmt := fmt.Sprintf("%s ROLE %s WITH LOGIN PASSWORD %s", verb, pgx.Identifier{login}.Sanitize(), quoteLiteral(password))
	if _, err := db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ошибка %s ROLE %s: %w", verb, login, err)
	}
	return nil
}

func execAll(ctx context.Context, db postgresql.Querier, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ошибка выполнения %q: %w", stmt, err)
		}
	}
	return nil
}

// SeedRoleLogins создаёт или обновляет логины БД для auth-подключения и
// каждой роли приложения, затем выдаёт им права. Роли без пароля пропускаются.
func SeedRoleLogins(ctx context.Context, db postgresql.Querier, cfg config.DatabaseConfig) error {
	log.Println("  - Запуск сидера логинов ролей...")

	if cfg.AuthUser != "" && cfg.AuthPassword != "" {
		if err := ensureLogin(ctx, db, cfg.AuthUser, cfg.AuthPassword); err != nil {
			return err
		}
		if err := execAll(ctx, db, authGrantStatements(cfg.AuthUser)); err != nil {
			return err
		}
		log.Printf("    - Auth-логин %s готов.", cfg.AuthUser)
	}

	for _, name := range config.RoleNames() {
		password := cfg.RolePasswords[name]
		login := cfg.RoleLogin(name)
		if password == "" {
			log.Printf("    ℹ️  DB_ROLE_PASSWORD_%s не задан. Логин %s пропущен.", strings.ToUpper(name), login)
			continue
		}
		if err := ensureLogin(ctx, db, login, password); err != nil {
			return err
		}
		if err := execAll(ctx, db, grantStatements(entities.Role(name), login)); err != nil {
			return err
		}
		log.Printf("    - Логин %s для роли %s готов.", login, name)
	}
	return nil
}
