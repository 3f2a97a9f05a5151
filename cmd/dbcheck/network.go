package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"inventory-system/internal/diagnostics"
)

func newNetworkCmd(env *cliEnv) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "network",
		Short: "Проверить DNS и доступность TCP-порта сервера БД",
		RunE: func(cmd *cobra.Command, args []string) error {
			if host == "" {
				host = env.cfg.Database.Host
			}
			if port == 0 {
				port = env.cfg.Database.Port
			}

			ctx, cancel := env.context()
			defer cancel()
			report := env.checker.ProbeNetwork(ctx, host, port)

			if err := env.print(cmd.OutOrStdout(), report, func(w io.Writer) { writeNetworkReport(w, report) }); err != nil {
				return err
			}
			if !report.TCPReachable {
				return errChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Хост (по умолчанию DB_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "Порт (по умолчанию DB_PORT)")
	return cmd
}

func writeNetworkReport(w io.Writer, r diagnostics.NetworkReport) {
	if r.DNSError != "" {
		fmt.Fprintf(w, "[FAIL] DNS %s: %s\n", r.Host, r.DNSError)
		return
	}
	fmt.Fprintf(w, "[OK  ] DNS %s -> %s\n", r.Host, strings.Join(r.Addresses, ", "))
	if r.TCPReachable {
		fmt.Fprintf(w, "[OK  ] TCP %s:%d доступен (%d мс)\n", r.Host, r.Port, r.LatencyMS)
		return
	}
	fmt.Fprintf(w, "[FAIL] TCP %s:%d: %s\n", r.Host, r.Port, r.TCPError)
}
