package checker

import (
	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/rule"
)

// CheckSystem implements the System ServiceChecker (spec §4.6 "System"):
// iterate process-resource rules only, evaluated against system-wide
// sensors (spec §4.2 "CPU (system)", "Swap", "Load averages").
func CheckSystem(ctx *Context, svc *model.Service) {
	load, cpu, prevCPU, mem := ctx.Sys.Snapshot()

	deltaTotal := cpu.Total() - prevCPU.Total()
	var userPct10, systemPct10, waitPct10 int64
	if deltaTotal > 0 {
		userPct10 = int64(cpu.User-prevCPU.User) * 1000 / int64(deltaTotal)
		systemPct10 = int64(cpu.System-prevCPU.System) * 1000 / int64(deltaTotal)
		waitPct10 = int64(cpu.IOWait-prevCPU.IOWait) * 1000 / int64(deltaTotal)
	}

	var memPct10 int64
	if mem.TotalKB > 0 {
		used := mem.TotalKB - mem.AvailableKB
		memPct10 = int64(used) * 1000 / int64(mem.TotalKB)
	}
	var swapPct10 int64
	if mem.SwapTotalKB > 0 {
		usedSwap := mem.SwapTotalKB - mem.SwapFreeKB
		swapPct10 = int64(usedSwap) * 1000 / int64(mem.SwapTotalKB)
	}

	sample := rule.ResourceSample{
		IsSystem:      true,
		SysCPUUser10:  userPct10,
		SysCPUSystem10: systemPct10,
		SysCPUWait10:  waitPct10,
		MemPercent10:  memPct10,
		MemKB:         int64(mem.TotalKB - mem.AvailableKB),
		SwapPercent10: swapPct10,
		SwapKB:        int64(mem.SwapTotalKB - mem.SwapFreeKB),
		Load1x10:      int64(load.Load1 * 10),
		Load5x10:      int64(load.Load5 * 10),
		Load15x10:     int64(load.Load15 * 10),
	}

	for _, rr := range svc.Resource {
		rule.ProcessResource(svc, rr, sample, ctx.Log, ctx.Bridge)
	}
}
