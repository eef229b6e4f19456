package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/myday-app/myday/internal/dashboard"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the live dashboard",
	Long: `Run the coordinator with a WebSocket dashboard. Connect to /ws to
receive a record_update message for every committed change plus
refreshed record counts. Runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		port := servePort
		if port == 0 {
			port = a.cfg.DashboardPort
		}

		server := dashboard.NewServer(port, a.log)
		dashboard.NewHandler(a.hub, server, a.log)

		if err := server.Start(); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Dashboard on %s, WebSocket path /ws (Ctrl-C to stop)\n", server.Addr())

		<-ctx.Done()

		if err := server.Stop(); err != nil {
			a.log.Warnw("dashboard shutdown failed", "error", err)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "dashboard port (default from config)")
}
