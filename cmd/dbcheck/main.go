// Package main - CLI для диагностики подключения к серверу БД:
// проверка логинов, сети и аутентификации через auth-подключение.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inventory-system/internal/connections"
	"inventory-system/internal/diagnostics"
	"inventory-system/pkg/config"
	applogger "inventory-system/pkg/logger"
)

var errChecksFailed = errors.New("одна или несколько проверок не прошли")

type cliEnv struct {
	cfg     *config.Config
	logger  *zap.Logger
	checker *diagnostics.Checker
	output  string
	timeout time.Duration
}

func newRootCmd(env *cliEnv) *cobra.Command {
	root := &cobra.Command{
		Use:           "dbcheck",
		Short:         "Диагностика подключения к базе данных",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if env.cfg == nil {
				env.cfg = config.New()
			}
			if env.logger == nil {
				env.logger = applogger.NewLogger(config.LogConfig{Level: "warn"})
			}
			env.checker = diagnostics.NewChecker(env.cfg.Database, connections.PgxOpener, env.logger)
		},
	}
	root.PersistentFlags().StringVarP(&env.output, "output", "o", "text", "Формат вывода: text или json")
	root.PersistentFlags().DurationVar(&env.timeout, "timeout", 60*time.Second, "Общий таймаут проверки")

	root.AddCommand(
		newConnectionCmd(env),
		newAuthCmd(env),
		newNetworkCmd(env),
		newPresetsCmd(env),
	)
	return root
}

func (env *cliEnv) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), env.timeout)
}

func (env *cliEnv) print(w io.Writer, v interface{}, text func(io.Writer)) error {
	if env.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func writeReport(w io.Writer, name string, r diagnostics.Report) {
	mark := "OK  "
	if !r.Success {
		mark = "FAIL"
	}
	fmt.Fprintf(w, "[%s] %-10s %s@%s/%s (sslmode=%s, %d мс)\n", mark, name, r.User, r.Server, r.Database, r.SSLMode, r.LatencyMS)
	if r.ServerVersion != "" {
		fmt.Fprintf(w, "       версия сервера: %s\n", r.ServerVersion)
	}
	if !r.Success {
		if r.Category != "" {
			fmt.Fprintf(w, "       категория: %s\n", r.Category)
		}
		fmt.Fprintf(w, "       %s\n", r.Message)
	}
}

func main() {
	if err := newRootCmd(&cliEnv{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}
