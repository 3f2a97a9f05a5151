package main

import (
	"io"

	"github.com/spf13/cobra"

	"inventory-system/pkg/database/postgresql"
)

func newConnectionCmd(env *cliEnv) *cobra.Command {
	var opts postgresql.ConnectionOptions

	cmd := &cobra.Command{
		Use:   "connection",
		Short: "Проверить подключение с указанными параметрами",
		Long: `Открывает временный пул и запрашивает версию сервера.
Незаданные флаги берутся из окружения (DB_HOST, DB_AUTH_USER и т.д.).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := postgresql.OptionsFromConfig(env.cfg.Database, env.cfg.Database.AuthUser, env.cfg.Database.AuthPassword)
			mergeOptions(&base, opts, cmd)

			ctx, cancel := env.context()
			defer cancel()
			report := env.checker.TestConnection(ctx, base)

			if err := env.print(cmd.OutOrStdout(), report, func(w io.Writer) { writeReport(w, "connection", report) }); err != nil {
				return err
			}
			if !report.Success {
				return errChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Хост сервера БД")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Порт сервера БД")
	cmd.Flags().StringVar(&opts.Database, "database", "", "Имя базы данных")
	cmd.Flags().StringVar(&opts.User, "user", "", "Логин")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Пароль")
	cmd.Flags().BoolVar(&opts.Encrypt, "encrypt", false, "Требовать TLS")
	cmd.Flags().BoolVar(&opts.TrustServerCertificate, "trust-cert", true, "Доверять сертификату сервера без проверки")
	return cmd
}

// mergeOptions переносит явно заданные флаги поверх параметров из окружения.
func mergeOptions(base *postgresql.ConnectionOptions, flags postgresql.ConnectionOptions, cmd *cobra.Command) {
	changed := cmd.Flags().Changed
	if changed("host") {
		base.Host = flags.Host
	}
	if changed("port") {
		base.Port = flags.Port
	}
	if changed("database") {
		base.Database = flags.Database
	}
	if changed("user") {
		base.User = flags.User
	}
	if changed("password") {
		base.Password = flags.Password
	}
	if changed("encrypt") {
		base.Encrypt = flags.Encrypt
	}
	if changed("trust-cert") {
		base.TrustServerCertificate = flags.TrustServerCertificate
	}
}
