package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the validation engine as a foreground daemon",
	Long: `run starts the ticker loop: every configured interval it refreshes
system/process state and dispatches each service to its checker, posting
events to the configured event store until interrupted.`,
	RunE: runRun,
}

var runPidFile string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runPidFile, "pidfile", "", "write the daemon's pid to this file")
}

func runRun(cmd *cobra.Command, args []string) error {
	log := setupLogging()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := buildApp(ctx, log)
	if err != nil {
		return err
	}
	defer a.store.Close()

	pidfile := runPidFile
	if pidfile == "" {
		pidfile = a.cfg.PidFile
	}
	if pidfile != "" {
		if err := os.WriteFile(pidfile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
			return fmt.Errorf("write pidfile: %w", err)
		}
		defer os.Remove(pidfile)
	}

	log.Info("starting", "services", len(a.services), "interval", a.cfg.Interval)

	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown requested")
			a.sched.Stop()
			return nil
		case <-ticker.C:
			failures := a.sched.Tick()
			if failures > 0 {
				log.Warn("cycle completed with failures", "count", failures)
			}
		}
	}
}
