package checker

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ftahirops/validatord/collector"
	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/probe"
	"github.com/ftahirops/validatord/rule"
)

// CheckProcess implements the Process ServiceChecker (spec §4.6 "Process"):
// verify pid lookup, clear prior sticky errors, refresh process data, then
// run state/pid/ppid checks, optional uptime, resource rules, and port
// probes. Assumes svc.Inf.Process was seeded via model.NewProcessObservation
// at configuration load, so PrevPID/PrevPPID/CPUPercent10 start at their
// documented sentinels.
func CheckProcess(ctx *Context, svc *model.Service) {
	pid, err := readPidfile(svc.Path)
	if err != nil {
		ctx.Bridge.Post(svc, model.EventNonexist, model.StateFailed, model.ActionNonexist,
			fmt.Sprintf("pidfile %s unreadable: %v", svc.Path, err))
		svc.Monitor &^= model.MonitorYes
		return
	}

	if ctx.Tree.IsProcessRunning(pid) == 0 {
		ctx.Bridge.Post(svc, model.EventNonexist, model.StateFailed, model.ActionNonexist,
			fmt.Sprintf("pid %d not running", pid))
		svc.Monitor &^= model.MonitorYes
		return
	}
	ctx.Bridge.Post(svc, model.EventNonexist, model.StateSucceeded, model.ActionNonexist, "running")
	clearSticky(ctx, svc)

	pi, ok := ctx.Tree.Lookup(pid)
	if !ok {
		ctx.Log.Error("process data refresh failed after successful lookup", "service", svc.Name, "pid", pid)
		return
	}

	prevPID := svc.Inf.Process.PrevPID
	prevPPID := svc.Inf.Process.PrevPPID

	svc.Inf.Process.PID = pi.PID
	svc.Inf.Process.PPID = pi.PPID
	svc.Inf.Process.Zombie = pi.Zombie()
	svc.Inf.Process.Children = ctx.Tree.ChildCount(pid)
	if sysUptime, uerr := collector.SystemUptimeSeconds(); uerr == nil {
		svc.Inf.Process.UptimeSec = collector.ProcessUptimeSeconds(pi.StartTimeTicks, sysUptime)
	}

	_, cpu, prevCPU, mem := ctx.Sys.Snapshot()
	deltaTicks := cpu.Total() - prevCPU.Total()

	subUTime, subSTime := ctx.Tree.SubtreeTimes(pid)
	svc.Inf.Process.CPUPercent10 = cpuPercent10(pi.UTime+pi.STime, svc.Inf.Process.PrevUTime+svc.Inf.Process.PrevSTime, svc.Inf.Process.HasPrevTimes, deltaTicks)
	svc.Inf.Process.TotalCPUPercent10 = cpuPercent10(subUTime+subSTime, svc.Inf.Process.PrevUTime+svc.Inf.Process.PrevSTime, svc.Inf.Process.HasPrevTimes, deltaTicks)
	svc.Inf.Process.PrevUTime = pi.UTime
	svc.Inf.Process.PrevSTime = pi.STime
	svc.Inf.Process.HasPrevTimes = true

	svc.Inf.Process.MemKB = int64(pi.RSSKB)
	svc.Inf.Process.TotalMemKB = int64(ctx.Tree.SubtreeRSSKB(pid))
	if mem.TotalKB > 0 {
		svc.Inf.Process.MemPercent10 = int64(pi.RSSKB) * 1000 / int64(mem.TotalKB)
		svc.Inf.Process.TotalMemPercent10 = svc.Inf.Process.TotalMemKB * 1000 / int64(mem.TotalKB)
	}

	rule.ProcessState(svc, svc.Inf.Process.Zombie, "", ctx.Bridge)
	rule.PidChange(svc, prevPID, pi.PID, "", ctx.Bridge)
	rule.PPidChange(svc, prevPPID, pi.PPID, "", ctx.Bridge)

	svc.Inf.Process.PrevPID = pi.PID
	svc.Inf.Process.PrevPPID = pi.PPID

	for _, ur := range svc.Uptime {
		rule.Uptime(svc, ur, svc.Inf.Process.UptimeSec, ctx.Bridge)
	}

	isInit := svc.Monitor.Has(model.MonitorInit)
	for _, rr := range svc.Resource {
		sample := rule.ResourceSample{
			IsInit:            isInit,
			CPUPercent10:      svc.Inf.Process.CPUPercent10,
			TotalCPUPercent10: svc.Inf.Process.TotalCPUPercent10,
			MemPercent10:      svc.Inf.Process.MemPercent10,
			MemKB:             svc.Inf.Process.MemKB,
			Children:          svc.Inf.Process.Children,
			TotalMemPercent10: svc.Inf.Process.TotalMemPercent10,
			TotalMemKB:        svc.Inf.Process.TotalMemKB,
		}
		rule.ProcessResource(svc, rr, sample, ctx.Log, ctx.Bridge)
	}

	for _, port := range svc.Ports {
		res := probe.Connection(port, probe.ProtocolByName(port.Plugin))
		port.HasLastResponse = true
		port.LastResponse = res.ResponseTime
		port.LastAvailable = res.Available
		if res.Available {
			ctx.Bridge.Post(svc, model.EventConnection, model.StateSucceeded, "", res.Report)
		} else {
			ctx.Bridge.Post(svc, model.EventConnection, model.StateFailed, "", res.Report)
		}
	}
}

// cpuPercent10 computes a process (or subtree)'s CPU usage as a percentage
// of total system ticks elapsed since the previous cycle, x10-scaled.
// Returns the -1 sentinel until a previous sample exists (spec §4.2 "CPU
// (process): skipped ... while the sampled value is negative").
func cpuPercent10(curTicks, prevTicks uint64, hasPrev bool, deltaSystemTicks uint64) int64 {
	if !hasPrev || deltaSystemTicks == 0 {
		return -1
	}
	delta := curTicks - prevTicks
	return int64(delta) * 1000 / int64(deltaSystemTicks)
}

func readPidfile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("bad pidfile contents: %w", err)
	}
	return pid, nil
}
