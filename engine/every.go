package engine

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ftahirops/validatord/model"
)

// ApplyEvery applies a service's scheduling policy (spec §4.7 step c):
// SKIPCYCLES advances a counter and skips until it reaches N; CRON skips
// unless the current time matches; NOTINCRON skips when the current time
// matches. Returns true when the service should be skipped this cycle;
// while skipped the Waiting bit is OR'd into Monitor, otherwise AND'd away.
func ApplyEvery(svc *model.Service, now time.Time, log *slog.Logger) bool {
	switch svc.Every.Kind {
	case model.EverySkipCycles:
		svc.Every.IncCounter()
		if svc.Every.Counter() < svc.Every.SkipCycles {
			svc.Monitor |= model.MonitorWaiting
			return true
		}
		svc.Every.ResetCounter()
		svc.Monitor &^= model.MonitorWaiting
		return false

	case model.EveryCron:
		matched, err := matchesCron(svc.Every.CronSpec, now)
		if err != nil {
			log.Error("every cron: bad spec, evaluating every cycle", "service", svc.Name, "spec", svc.Every.CronSpec, "error", err)
			svc.Monitor &^= model.MonitorWaiting
			return false
		}
		if !matched {
			svc.Monitor |= model.MonitorWaiting
			return true
		}
		svc.Monitor &^= model.MonitorWaiting
		return false

	case model.EveryNotInCron:
		matched, err := matchesCron(svc.Every.CronSpec, now)
		if err != nil {
			log.Error("every notincron: bad spec, evaluating every cycle", "service", svc.Name, "spec", svc.Every.CronSpec, "error", err)
			svc.Monitor &^= model.MonitorWaiting
			return false
		}
		if matched {
			svc.Monitor |= model.MonitorWaiting
			return true
		}
		svc.Monitor &^= model.MonitorWaiting
		return false
	}

	// EveryCycle: always evaluate.
	svc.Monitor &^= model.MonitorWaiting
	return false
}

// matchesCron reports whether now falls within the minute the standard
// 5-field cron expression names, using robfig/cron's field parser (spec §6
// "Time_incron(cron, time)").
func matchesCron(spec string, now time.Time) (bool, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return false, err
	}
	truncated := now.Truncate(time.Minute)
	next := sched.Next(truncated.Add(-time.Second))
	return next.Equal(truncated), nil
}
