package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inventory-system/internal/connections"
	"inventory-system/internal/entities"
)

type authResult struct {
	User        *entities.PublicUser     `json:"user,omitempty"`
	RoleLogin   string                   `json:"role_login,omitempty"`
	CurrentUser string                   `json:"current_user,omitempty"`
	Query       *connections.QueryResult `json:"query,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

func newAuthCmd(env *cliEnv) *cobra.Command {
	var login, password string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Пройти вход пользователя и открыть подключение под логином роли",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := env.context()
			defer cancel()

			manager := connections.NewManager(env.cfg.Database, connections.PgxOpener, env.logger)
			defer func() {
				if err := manager.Shutdown(context.Background()); err != nil {
					env.logger.Warn("Не удалось остановить менеджер подключений", zap.Error(err))
				}
			}()

			result := authResult{}
			authUser, err := manager.AuthenticateUser(ctx, login, password)
			if err == nil {
				result.User = &authUser.User
				result.RoleLogin = authUser.RoleLogin

				sessionID := uuid.New().String()
				if _, err = manager.CreateUserConnection(ctx, sessionID, authUser.RoleLogin, authUser.RoleSecret); err == nil {
					var q *connections.QueryResult
					if q, err = manager.ExecuteUserQuery(ctx, sessionID, "SELECT current_user AS current_user"); err == nil {
						result.Query = q
						if len(q.Rows) == 1 {
							result.CurrentUser = fmt.Sprint(q.Rows[0]["current_user"])
						}
					}
				}
			}
			if err != nil {
				result.Error = err.Error()
			}

			if perr := env.print(cmd.OutOrStdout(), result, func(w io.Writer) { writeAuthResult(w, result) }); perr != nil {
				return perr
			}
			if err != nil {
				return errChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "Email или имя пользователя приложения")
	cmd.Flags().StringVar(&password, "password", "", "Пароль пользователя приложения")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func writeAuthResult(w io.Writer, r authResult) {
	if r.Error != "" {
		fmt.Fprintf(w, "[FAIL] вход: %s\n", r.Error)
		if r.User == nil {
			return
		}
	}
	if r.User != nil {
		fmt.Fprintf(w, "[OK  ] пользователь %s (id=%d, роль %s)\n", r.User.Username, r.User.ID, r.User.Role)
		fmt.Fprintf(w, "       логин роли: %s\n", r.RoleLogin)
	}
	if r.CurrentUser != "" {
		fmt.Fprintf(w, "[OK  ] current_user в сессии: %s\n", r.CurrentUser)
	}
}
