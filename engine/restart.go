package engine

import (
	"fmt"

	"github.com/ftahirops/validatord/model"
)

// RestartPoster is the subset of event.Bridge ApplyRestartRate needs.
type RestartPoster interface {
	Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string)
}

// ApplyRestartRate implements the restart-flap protocol (spec §4.7d
// "timeout"): if nstart > 0, increment ncycle; for each action-rate rule,
// nstart >= count within the rule's window fires Timeout FAILED; once
// ncycle exceeds the widest window configured, both counters reset.
func ApplyRestartRate(svc *model.Service, bridge RestartPoster) {
	if svc.NStart > 0 {
		svc.NCycle++
	}

	maxCycles := 0
	for _, rr := range svc.Restart {
		if rr.Cycles > maxCycles {
			maxCycles = rr.Cycles
		}
		if svc.NStart >= rr.Count && svc.NCycle <= rr.Cycles {
			bridge.Post(svc, model.EventTimeout, model.StateFailed, rr.Action,
				fmt.Sprintf("restarted %d times within %d cycles (limit %d within %d)", svc.NStart, svc.NCycle, rr.Count, rr.Cycles))
		}
	}

	if maxCycles > 0 && svc.NCycle > maxCycles {
		svc.NStart = 0
		svc.NCycle = 0
	}
}

// RecordRestart increments a service's restart counter; called by the
// (out-of-scope) alert/action subsystem whenever it restarts the service's
// underlying process.
func RecordRestart(svc *model.Service) {
	svc.NStart++
}
