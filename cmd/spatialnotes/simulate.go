package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/spatialnotes"
)

var (
	simTicks       int
	simRefresh     int
	simBudget      int
	simMetricsAddr string
	simState       bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Reconcile the vault into an in-memory scene and print every scene mutation",
	Long: `Run reconciliation ticks against an in-memory scene and print the mutations each
tick issues. Unplaced notes get a position, which is saved like in a real scene
(use --read-only to avoid that). With --metrics-addr the reconciler metrics are
served until interrupted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		host := simulatedHost()
		reg := prometheus.NewRegistry()
		s := openSession(host,
			spatialnotes.WithMetrics(reg),
			spatialnotes.WithRefreshInterval(simRefresh),
			spatialnotes.WithRenderBudget(simBudget),
		)

		// The loop is not started: ticks run here, on one goroutine.
		rec := s.Reconciler
		rec.Setup()
		host.Drain()
		for i := 0; i < simTicks; i++ {
			rep := rec.Tick()
			fmt.Printf("tick %d: %d created, %d moved, %d removed, %d rendered, %d rebuilt, %d deferred\n",
				rep.Tick, rep.Created, rep.Moved, rep.Removed, rep.Rendered, rep.Rebuilt, rep.Deferred)
			for _, m := range host.Drain() {
				fmt.Printf("  %s\n", m)
			}
		}

		if simState {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(map[string]any{
				rec.ComponentType():     rec.State(),
				s.Notes.ComponentType(): s.Notes.State(),
				"scene_objects":         host.Len(),
			})
		}

		if simMetricsAddr != "" {
			serveMetrics(ctx, simMetricsAddr, reg)
		}

		rec.Teardown()
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Close(closeCtx); err != nil {
			fatal("Failed to save notes", err)
		}
	},
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "serving metrics on %s, interrupt to stop\n", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal("Metrics server failed", err)
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntVarP(&simTicks, "ticks", "n", 3, "Number of ticks to run")
	simulateCmd.Flags().IntVar(&simRefresh, "refresh", 10, "Ticks between periodic refreshes (0 disables)")
	simulateCmd.Flags().IntVar(&simBudget, "budget", 0, "Maximum re-renders per tick (0 means no cap)")
	simulateCmd.Flags().StringVar(&simMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address after the run")
	simulateCmd.Flags().BoolVar(&simState, "state", false, "Print component state as JSON after the run")
	addCameraFlags(simulateCmd)
}
