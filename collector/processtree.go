// Package collector implements the external collaborators spec §6 names as
// "Inbound": process lookup and the process tree, filesystem usage,
// checksum computation, and system-wide CPU/memory/load sampling. These are
// intentionally thin — real OS primitives, no rule logic — so checkers
// (package checker) can consume them without knowing how /proc or statfs
// work.
package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftahirops/validatord/util"
)

// ProcessInfo is one process's snapshot, as read from /proc/[pid].
type ProcessInfo struct {
	PID, PPID int
	comm      string
	State     string // "R", "S", "D", "Z", "T", ...
	UTime, STime uint64
	StartTimeTicks uint64
	NumThreads   int
	RSSKB        uint64 // from /proc/[pid]/status VmRSS, already in kB
	VmSize       uint64
	Children     []int // direct child PIDs, populated by BuildTree
}

// Zombie reports whether the process is in the zombie state (spec §4.2
// "Process state").
func (p ProcessInfo) Zombie() bool { return p.State == "Z" }

// Tree is a point-in-time snapshot of every process visible under /proc,
// indexed by PID, with each process's direct children linked; descendant
// totals are computed on demand by SubtreeTimes/SubtreeRSSKB (spec §3
// observation "totals including descendants", "children count").
type Tree struct {
	procs    map[int]*ProcessInfo
	clockTck int64
}

// BuildTree walks /proc once, reading each PID's stat file (spec §6
// `update_process_data`/process tree collaborator).
func BuildTree() (*Tree, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}

	t := &Tree{procs: make(map[int]*ProcessInfo), clockTck: clockTicksPerSec()}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid := util.ParseInt(e.Name())
		if pid <= 0 {
			continue
		}
		pi, err := readProcessInfo(pid)
		if err != nil {
			continue // process may have exited between readdir and read
		}
		t.procs[pid] = pi
	}
	for _, pi := range t.procs {
		if parent, ok := t.procs[pi.PPID]; ok {
			parent.Children = append(parent.Children, pi.PID)
		}
	}
	return t, nil
}

// Lookup returns the pid's info, or (nil, false) if it is not running.
func (t *Tree) Lookup(pid int) (*ProcessInfo, bool) {
	pi, ok := t.procs[pid]
	return pi, ok
}

// IsProcessRunning implements the spec §6 `isProcessRunning` collaborator.
func (t *Tree) IsProcessRunning(pid int) int {
	if _, ok := t.procs[pid]; ok {
		return pid
	}
	return 0
}

// FindByName returns a pid whose comm matches name; when several processes
// match, which one is returned is not defined. The Process checker does not
// call it: it locates processes by pidfile only.
func (t *Tree) FindByName(name string) (int, bool) {
	for pid, pi := range t.procs {
		if pi.comm == name {
			return pid, true
		}
	}
	return 0, false
}

// Descendants returns pid and every transitive child (used for process
// subtree resource totals, spec §4.2 "Total mem (process subtree)").
func (t *Tree) Descendants(pid int) []int {
	out := []int{pid}
	queue := []int{pid}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if pi, ok := t.procs[cur]; ok {
			out = append(out, pi.Children...)
			queue = append(queue, pi.Children...)
		}
	}
	return out
}

// SubtreeTimes sums the utime/stime jiffy counters of pid and every
// transitive descendant (spec §4.2 "Total mem (process subtree)" sibling
// computation for total_cpu_percent).
func (t *Tree) SubtreeTimes(pid int) (utime, stime uint64) {
	for _, p := range t.Descendants(pid) {
		if pi, ok := t.procs[p]; ok {
			utime += pi.UTime
			stime += pi.STime
		}
	}
	return utime, stime
}

// SubtreeRSSKB sums the resident-set-size of pid and every transitive
// descendant, in kB (spec §4.2 "Total mem (process subtree)").
func (t *Tree) SubtreeRSSKB(pid int) uint64 {
	var total uint64
	for _, p := range t.Descendants(pid) {
		if pi, ok := t.procs[p]; ok {
			total += pi.RSSKB
		}
	}
	return total
}

// ChildCount returns the number of direct children of pid.
func (t *Tree) ChildCount(pid int) int {
	if pi, ok := t.procs[pid]; ok {
		return len(pi.Children)
	}
	return 0
}

func readProcessInfo(pid int) (*ProcessInfo, error) {
	content, err := util.ReadFileString(filepath.Join("/proc", fmt.Sprint(pid), "stat"))
	if err != nil {
		return nil, err
	}

	closeIdx := strings.LastIndex(content, ")")
	openIdx := strings.Index(content, "(")
	if closeIdx < 0 || openIdx < 0 {
		return nil, fmt.Errorf("bad stat format for pid %d", pid)
	}
	comm := content[openIdx+1 : closeIdx]
	rest := strings.Fields(content[closeIdx+2:])
	if len(rest) < 22 {
		return nil, fmt.Errorf("stat too short for pid %d", pid)
	}

	pi := &ProcessInfo{
		PID:   pid,
		comm:  comm,
		State: rest[0],
		PPID:  util.ParseInt(rest[1]),
	}
	pi.UTime = util.ParseUint64(rest[11])
	pi.STime = util.ParseUint64(rest[12])
	pi.NumThreads = util.ParseInt(rest[17])
	pi.StartTimeTicks = util.ParseUint64(rest[19])

	statusKV, err := util.ParseKeyValueFile(filepath.Join("/proc", fmt.Sprint(pid), "status"))
	if err == nil {
		pi.RSSKB = parseKBField(statusKV["VmRSS"])
		pi.VmSize = parseKBField(statusKV["VmSize"])
	}
	return pi, nil
}

func parseKBField(v string) uint64 {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0
	}
	return util.ParseUint64(fields[0])
}
