// Package model holds the data types shared across the validation engine:
// services, rules, observations, ports, and events.
package model

import "time"

// ServiceType names the kind of resource a Service monitors.
type ServiceType int

const (
	ServiceProcess ServiceType = iota
	ServiceFile
	ServiceDirectory
	ServiceFifo
	ServiceFilesystem
	ServiceProgram
	ServiceRemoteHost
	ServiceSystem
)

func (t ServiceType) String() string {
	switch t {
	case ServiceProcess:
		return "process"
	case ServiceFile:
		return "file"
	case ServiceDirectory:
		return "directory"
	case ServiceFifo:
		return "fifo"
	case ServiceFilesystem:
		return "filesystem"
	case ServiceProgram:
		return "program"
	case ServiceRemoteHost:
		return "host"
	case ServiceSystem:
		return "system"
	}
	return "unknown"
}

// Monitor is a bitmask of monitoring state flags.
type Monitor int

const (
	MonitorNot  Monitor = 0
	MonitorInit Monitor = 1 << iota
	MonitorYes
	MonitorWaiting
)

// Has reports whether all bits in mask are set.
func (m Monitor) Has(mask Monitor) bool { return m&mask == mask }

// EveryKind selects how a service's scheduling policy restricts which
// cycles actually evaluate it.
type EveryKind int

const (
	EveryCycle EveryKind = iota
	EverySkipCycles
	EveryCron
	EveryNotInCron
)

// Every is the per-service scheduling policy (spec GLOSSARY "Every").
type Every struct {
	Kind EveryKind

	// SkipCycles: evaluate once every N cycles.
	SkipCycles int
	counter    int // internal: cycles seen since last evaluation

	// Cron/NotInCron: a 5-field cron expression evaluated against the
	// current time via robfig/cron's field parser.
	CronSpec string
}

// Counter exposes the internal skip-cycle counter for testing and for the
// scheduler's bookkeeping; it is otherwise private to Every.
func (e *Every) Counter() int      { return e.counter }
func (e *Every) SetCounter(n int)  { e.counter = n }
func (e *Every) IncCounter()       { e.counter++ }
func (e *Every) ResetCounter()     { e.counter = 0 }

// ActionRef names the external action to dispatch for a given event.
type ActionRef string

// Action references consumed per spec §6 ("per-event action references").
const (
	ActionNonexist ActionRef = "NONEXIST"
	ActionInvalid  ActionRef = "INVALID"
	ActionExec     ActionRef = "EXEC"
)

// RestartRate tracks the "timeout" (flap-detection) policy: if the service
// is restarted `count` times within `cycle` cycles, a Timeout FAILED event
// fires with the rule's action.
type RestartRate struct {
	Count  int
	Cycles int
	Action ActionRef
}

// Service is the unit of monitoring (spec §3).
type Service struct {
	Name string
	Type ServiceType
	Path string // filesystem path, or host address for RemoteHost

	Monitor Monitor
	Every   Every

	// Visited marks the service as already handled via a dependency chain
	// this cycle; the scheduler skips services with Visited set.
	Visited bool

	// PendingAction is an administrative action queued for this service
	// (e.g. "start", "stop", "restart") to run before monitoring.
	PendingAction string

	// Restart-flap bookkeeping (spec §4.7d).
	NStart  int
	NCycle  int
	Restart []RestartRate

	// ProgramTimeout bounds a Program service's Running state (spec §4.5);
	// unused by other service types.
	ProgramTimeout time.Duration

	// Last cycle's observed state.
	Inf Observation

	// Rule lists (spec §3).
	Permission *PermissionRule
	UID        *UIDRule
	GID        *GIDRule
	Checksum   []*ChecksumRule
	Size       []*SizeRule
	Timestamp  []*TimestampRule
	Uptime     []*UptimeRule
	Match      []*MatchRule
	MatchIgnore []*MatchRule
	Ports      []*Port
	Icmp       []*IcmpRule
	Resource   []*ResourceRule
	Filesystem []*FilesystemFlagRule
	FSResource []*FSResourceRule
	Status     []*StatusRule

	// LastCycleCollected is the collection timestamp stamped by the
	// scheduler at the end of this service's dispatch (spec §4.7g).
	LastCycleCollected time.Time
}

// ProgramHandle describes a Program service's process lifecycle state. No
// Service field holds one and program.Runner does not use it: the runner
// keeps its own per-service process state.
type ProgramHandle struct {
	Running    bool
	StartTime  time.Time
	PID        int
	ExitStatus int // -1 sentinel: not yet known
}
