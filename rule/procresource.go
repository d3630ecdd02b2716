package rule

import (
	"log/slog"

	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/predicate"
)

// ResourceSample bundles every value a ResourceRule might be evaluated
// against (spec §4.2 "Process resources"). The caller (the Process or
// System ServiceChecker) fills in only the fields meaningful for that
// service type; fields outside a rule's ID are never read.
type ResourceSample struct {
	IsSystem bool
	IsInit   bool // service monitor mode is Init: cpu rules must be skipped

	CPUPercent10      int64 // -1 sentinel: first sample not yet available
	TotalCPUPercent10 int64

	SysCPUUser10, SysCPUSystem10, SysCPUWait10 int64

	MemPercent10, MemKB         int64 // process or system totals, caller's choice
	SwapPercent10, SwapKB       int64
	Load1x10, Load5x10, Load15x10 int64
	Children                    int
	TotalMemPercent10, TotalMemKB int64
}

// ProcessResource evaluates one ResourceRule against a sample (spec §4.2
// "Process resources"). Unknown resource IDs are an internal-consistency
// error: logged, no event posted.
func ProcessResource(svc *model.Service, r *model.ResourceRule, s ResourceSample, log *slog.Logger, bridge EventPoster) {
	if r == nil {
		return
	}

	switch r.ID {
	case model.ResourceCPUPercent:
		if s.IsInit || s.CPUPercent10 < 0 {
			return
		}
		evalPercent(svc, r, "cpu_percent", s.CPUPercent10, bridge)
	case model.ResourceTotalCPUPercent:
		if s.IsInit || s.TotalCPUPercent10 < 0 {
			return
		}
		evalPercent(svc, r, "total_cpu_percent", s.TotalCPUPercent10, bridge)
	case model.ResourceCPUUser:
		evalPercent(svc, r, "cpu_user", s.SysCPUUser10, bridge)
	case model.ResourceCPUSystem:
		evalPercent(svc, r, "cpu_system", s.SysCPUSystem10, bridge)
	case model.ResourceCPUWait:
		evalPercent(svc, r, "cpu_wait", s.SysCPUWait10, bridge)
	case model.ResourceMemPercent:
		evalPercent(svc, r, "mem_percent", s.MemPercent10, bridge)
	case model.ResourceMemKB:
		evalKB(svc, r, "mem_kb", s.MemKB, bridge)
	case model.ResourceSwapPercent:
		if !s.IsSystem {
			return
		}
		evalPercent(svc, r, "swap_percent", s.SwapPercent10, bridge)
	case model.ResourceSwapKB:
		if !s.IsSystem {
			return
		}
		evalKB(svc, r, "swap_kb", s.SwapKB, bridge)
	case model.ResourceLoad1:
		evalPercent(svc, r, "loadavg1", s.Load1x10, bridge)
	case model.ResourceLoad5:
		evalPercent(svc, r, "loadavg5", s.Load5x10, bridge)
	case model.ResourceLoad15:
		evalPercent(svc, r, "loadavg15", s.Load15x10, bridge)
	case model.ResourceChildren:
		evalCount(svc, r, "children", int64(s.Children), bridge)
	case model.ResourceTotalMemPercent:
		evalPercent(svc, r, "total_mem_percent", s.TotalMemPercent10, bridge)
	case model.ResourceTotalMemKB:
		evalKB(svc, r, "total_mem_kb", s.TotalMemKB, bridge)
	default:
		log.Error("unknown resource id", "service", svc.Name, "id", r.ID)
	}
}

func evalPercent(svc *model.Service, r *model.ResourceRule, label string, value10 int64, bridge EventPoster) {
	report := predicate.ReportPercent10(label, value10, r.Limit, r.Op)
	if predicate.Eval(r.Op, value10, r.Limit) {
		bridge.Post(svc, model.EventResource, model.StateFailed, r.Action, report)
		return
	}
	bridge.Post(svc, model.EventResource, model.StateSucceeded, r.Action, report)
}

func evalKB(svc *model.Service, r *model.ResourceRule, label string, valueKB int64, bridge EventPoster) {
	report := predicate.ReportBytes(label, valueKB*1024, r.Limit*1024, r.Op)
	if predicate.Eval(r.Op, valueKB, r.Limit) {
		bridge.Post(svc, model.EventResource, model.StateFailed, r.Action, report)
		return
	}
	bridge.Post(svc, model.EventResource, model.StateSucceeded, r.Action, report)
}

func evalCount(svc *model.Service, r *model.ResourceRule, label string, value int64, bridge EventPoster) {
	report := predicate.Report(label, value, r.Limit, r.Op, "")
	if predicate.Eval(r.Op, value, r.Limit) {
		bridge.Post(svc, model.EventResource, model.StateFailed, r.Action, report)
		return
	}
	bridge.Post(svc, model.EventResource, model.StateSucceeded, r.Action, report)
}
