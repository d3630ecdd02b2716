package model

import "time"

// Observation ("inf" in spec §3) is the last observed state of a service:
// common stat-like fields plus a type-specific substructure.
type Observation struct {
	Mode uint32
	UID  int
	GID  int
	Mtime time.Time
	Ctime time.Time

	File       FileObservation
	Process    ProcessObservation
	Filesystem FilesystemObservation
}

// FileObservation holds file-specific observed state (spec §3 "File").
type FileObservation struct {
	Size        int64
	Inode       uint64
	PrevInode   uint64
	HasPrevInode bool
	ReadPos     int64 // match-rule tailing cursor
	Checksum    []byte
}

// ProcessObservation holds process-specific observed state (spec §3
// "Process").
type ProcessObservation struct {
	PID     int
	PPID    int
	PrevPID int // -1 sentinel: not yet observed
	PrevPPID int

	UptimeSec int64
	CPUPercent10     int64 // x10
	TotalCPUPercent10 int64
	MemPercent10     int64
	MemKB            int64
	TotalMemPercent10 int64
	TotalMemKB        int64
	Children          int
	Zombie            bool

	// PrevUTime/PrevSTime are the jiffy counters from the previous cycle,
	// used to compute CPUPercent10 as a delta over the cycle's elapsed
	// system ticks; HasPrevTimes gates the first-sample sentinel.
	PrevUTime, PrevSTime uint64
	HasPrevTimes         bool
}

// FilesystemObservation holds filesystem-specific observed state (spec §3
// "Filesystem").
type FilesystemObservation struct {
	BlocksTotal uint64
	BlocksFree  uint64
	InodesTotal uint64
	InodesFree  uint64

	PrevFlags    int64
	HasPrevFlags bool
	Flags        int64

	InodePercent10 int64 // x10, 0 if InodesTotal == 0
	SpacePercent10 int64 // x10, 0 if BlocksTotal == 0
	InodeTotal     uint64
	SpaceTotal     uint64
}

// NewProcessObservation returns a ProcessObservation with sentinel values
// seeded (spec §3 invariant: pid/ppid sentinel is -1; cpu percent sentinel
// is negative, meaning "not yet sampled").
func NewProcessObservation() ProcessObservation {
	return ProcessObservation{
		PrevPID:           -1,
		PrevPPID:          -1,
		CPUPercent10:      -1,
		TotalCPUPercent10: -1,
	}
}
