package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newPresetsCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "Проверить auth-логин и логины всех ролей из окружения",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := env.context()
			defer cancel()
			reports := env.checker.TestPresets(ctx)

			err := env.print(cmd.OutOrStdout(), reports, func(w io.Writer) {
				for _, p := range reports {
					writeReport(w, p.Name, p.Report)
				}
			})
			if err != nil {
				return err
			}
			for _, p := range reports {
				if !p.Report.Success {
					return errChecksFailed
				}
			}
			return nil
		},
	}
}
