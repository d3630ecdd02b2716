package collector

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ftahirops/validatord/util"
)

// clockTicksPerSec returns the kernel's USER_HZ; Linux has used 100 for
// every mainstream architecture in practice, and there is no portable way
// to read sysconf(_SC_CLK_TCK) from pure Go without cgo, so it is a
// constant rather than a collaborator call.
func clockTicksPerSec() int64 { return 100 }

// SystemUptimeSeconds reads /proc/uptime.
func SystemUptimeSeconds() (float64, error) {
	content, err := util.ReadFileString("/proc/uptime")
	if err != nil {
		return 0, fmt.Errorf("read /proc/uptime: %w", err)
	}
	fields := strings.Fields(content)
	if len(fields) < 1 {
		return 0, fmt.Errorf("bad /proc/uptime format")
	}
	return util.ParseFloat64(fields[0]), nil
}

// ProcessUptimeSeconds computes a process's uptime from its /proc/[pid]/stat
// start-time field and the system's current uptime.
func ProcessUptimeSeconds(startTimeTicks uint64, sysUptime float64) int64 {
	startSec := float64(startTimeTicks) / float64(clockTicksPerSec())
	up := sysUptime - startSec
	if up < 0 {
		return 0
	}
	return int64(up)
}

// CPUTimes are the raw jiffy counters from the "cpu " line of /proc/stat.
type CPUTimes struct {
	User, Nice, System, Idle, IOWait, IRQ, SoftIRQ, Steal uint64
}

// Total returns the sum of every counted state.
func (c CPUTimes) Total() uint64 {
	return c.User + c.Nice + c.System + c.Idle + c.IOWait + c.IRQ + c.SoftIRQ + c.Steal
}

// Active returns ticks spent doing work (everything but idle and iowait).
func (c CPUTimes) Active() uint64 {
	return c.Total() - c.Idle - c.IOWait
}

// ReadCPUTimes reads the aggregate "cpu " line of /proc/stat.
func ReadCPUTimes() (CPUTimes, error) {
	lines, err := util.ReadFileLines("/proc/stat")
	if err != nil {
		return CPUTimes{}, fmt.Errorf("read /proc/stat: %w", err)
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "cpu ") {
			return parseCPULine(line), nil
		}
	}
	return CPUTimes{}, fmt.Errorf("no aggregate cpu line in /proc/stat")
}

func parseCPULine(line string) CPUTimes {
	f := strings.Fields(line)
	get := func(i int) uint64 {
		if i < len(f) {
			return util.ParseUint64(f[i])
		}
		return 0
	}
	return CPUTimes{
		User: get(1), Nice: get(2), System: get(3), Idle: get(4),
		IOWait: get(5), IRQ: get(6), SoftIRQ: get(7), Steal: get(8),
	}
}

// LoadAvg is the three standard load-average windows.
type LoadAvg struct {
	Load1, Load5, Load15 float64
}

// ReadLoadAvg reads /proc/loadavg.
func ReadLoadAvg() (LoadAvg, error) {
	content, err := util.ReadFileString("/proc/loadavg")
	if err != nil {
		return LoadAvg{}, fmt.Errorf("read /proc/loadavg: %w", err)
	}
	f := strings.Fields(content)
	if len(f) < 3 {
		return LoadAvg{}, fmt.Errorf("bad /proc/loadavg format")
	}
	return LoadAvg{
		Load1:  util.ParseFloat64(f[0]),
		Load5:  util.ParseFloat64(f[1]),
		Load15: util.ParseFloat64(f[2]),
	}, nil
}

// MemInfo holds the system-wide memory/swap totals used by System-type
// resource rules (spec §4.2 "Memory (percent/kB)", "Swap").
type MemInfo struct {
	TotalKB, AvailableKB uint64
	SwapTotalKB, SwapFreeKB uint64
}

// ReadMemInfo reads /proc/meminfo.
func ReadMemInfo() (MemInfo, error) {
	kv, err := util.ParseKeyValueFile("/proc/meminfo")
	if err != nil {
		return MemInfo{}, fmt.Errorf("read /proc/meminfo: %w", err)
	}
	get := func(k string) uint64 { return parseKBField(kv[k]) }
	return MemInfo{
		TotalKB:     get("MemTotal"),
		AvailableKB: get("MemAvailable"),
		SwapTotalKB: get("SwapTotal"),
		SwapFreeKB:  get("SwapFree"),
	}, nil
}

// SysInfo bundles the global, cycle-scoped sensors the scheduler refreshes
// once per cycle (spec §4.7 step 2; §5 "system-info struct"). It is
// read-only once populated — every checker in the cycle shares it.
type SysInfo struct {
	mu sync.RWMutex

	Load   LoadAvg
	CPU    CPUTimes
	PrevCPU CPUTimes
	Mem    MemInfo
	Uptime float64
	CollectedAt time.Time
}

// Refresh re-samples load average, CPU ticks (keeping the previous sample
// for rate computation), memory, and uptime.
func (s *SysInfo) Refresh() error {
	load, err := ReadLoadAvg()
	if err != nil {
		return err
	}
	cpu, err := ReadCPUTimes()
	if err != nil {
		return err
	}
	mem, err := ReadMemInfo()
	if err != nil {
		return err
	}
	uptime, err := SystemUptimeSeconds()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.PrevCPU = s.CPU
	s.Load = load
	s.CPU = cpu
	s.Mem = mem
	s.Uptime = uptime
	s.CollectedAt = time.Now()
	return nil
}

// Snapshot returns a copy of the current sensor values, safe to read
// concurrently while Refresh is not in flight.
func (s *SysInfo) Snapshot() (load LoadAvg, cpu, prevCPU CPUTimes, mem MemInfo) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Load, s.CPU, s.PrevCPU, s.Mem
}
