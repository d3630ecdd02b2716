package engine

import (
	"log/slog"
	"testing"
	"time"

	"github.com/ftahirops/validatord/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestApplyEverySkipCyclesSkipsUntilThreshold(t *testing.T) {
	svc := &model.Service{Every: model.Every{Kind: model.EverySkipCycles, SkipCycles: 3}}
	log := discardLogger()
	now := time.Now()

	if !ApplyEvery(svc, now, log) {
		t.Fatalf("expected skip on cycle 1 of 3")
	}
	if !svc.Monitor.Has(model.MonitorWaiting) {
		t.Fatalf("expected Waiting bit set while skipped")
	}
	if !ApplyEvery(svc, now, log) {
		t.Fatalf("expected skip on cycle 2 of 3")
	}
	if ApplyEvery(svc, now, log) {
		t.Fatalf("expected evaluation on cycle 3 of 3")
	}
	if svc.Monitor.Has(model.MonitorWaiting) {
		t.Fatalf("expected Waiting bit cleared once evaluated")
	}
}

// TestApplyEveryCronSkipsOutsideMask exercises the EVERY_CRON scenario: a
// cron spec that never matches the test time means every cycle is skipped
// and the Waiting bit stays set.
func TestApplyEveryCronSkipsOutsideMask(t *testing.T) {
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	svc := &model.Service{Every: model.Every{Kind: model.EveryCron, CronSpec: "0 0 1 1 *"}}
	log := discardLogger()

	if !ApplyEvery(svc, now, log) {
		t.Fatalf("expected skip: current time is outside the cron mask")
	}
	if !svc.Monitor.Has(model.MonitorWaiting) {
		t.Fatalf("expected Waiting bit set while outside cron mask")
	}
}

func TestApplyEveryCronEvaluatesInsideMask(t *testing.T) {
	now := time.Date(2026, 7, 31, 10, 30, 0, 0, time.UTC)
	svc := &model.Service{Every: model.Every{Kind: model.EveryCron, CronSpec: "30 10 31 7 *"}}
	log := discardLogger()

	if ApplyEvery(svc, now, log) {
		t.Fatalf("expected evaluation: current time matches the cron mask")
	}
	if svc.Monitor.Has(model.MonitorWaiting) {
		t.Fatalf("expected Waiting bit cleared when evaluated")
	}
}

func TestApplyEveryNotInCronSkipsInsideMask(t *testing.T) {
	now := time.Date(2026, 7, 31, 10, 30, 0, 0, time.UTC)
	svc := &model.Service{Every: model.Every{Kind: model.EveryNotInCron, CronSpec: "30 10 31 7 *"}}
	log := discardLogger()

	if !ApplyEvery(svc, now, log) {
		t.Fatalf("expected skip: NOTINCRON skips when the time matches")
	}
}

func TestApplyEveryCycleAlwaysEvaluates(t *testing.T) {
	svc := &model.Service{}
	log := discardLogger()

	if ApplyEvery(svc, time.Now(), log) {
		t.Fatalf("expected EveryCycle to never skip")
	}
}
