package collector

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FilesystemUsage implements the spec §6 `filesystem_usage` collaborator:
// statfs the given path and return block/inode totals.
type FilesystemUsage struct {
	BlocksTotal, BlocksFree, BlocksAvail uint64
	InodesTotal, InodesFree              uint64
	BlockSize                            uint64
	Flags                                int64
}

// StatFilesystem calls statfs on path via golang.org/x/sys/unix (grounded on
// the teacher's collector/filesystem.go, which does the same for its
// mount-table sweep; here it is a targeted single-path lookup instead of a
// full /proc/mounts walk, since a Filesystem service names one mount
// point).
func StatFilesystem(path string) (FilesystemUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FilesystemUsage{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	bsize := uint64(st.Bsize)
	return FilesystemUsage{
		BlocksTotal: st.Blocks,
		BlocksFree:  st.Bfree,
		BlocksAvail: st.Bavail,
		InodesTotal: st.Files,
		InodesFree:  st.Ffree,
		BlockSize:   bsize,
		Flags:       int64(st.Flags),
	}, nil
}

// SpaceTotalBytes returns the total space capacity in bytes.
func (u FilesystemUsage) SpaceTotalBytes() uint64 { return u.BlocksTotal * u.BlockSize }

// SpacePercentUsed10 returns used-space percentage, x10-scaled, 0 if the
// filesystem reports zero total blocks (spec §3 "zero denominator").
func (u FilesystemUsage) SpacePercentUsed10() int64 {
	if u.BlocksTotal == 0 {
		return 0
	}
	used := u.BlocksTotal - u.BlocksFree
	return int64(used * 1000 / u.BlocksTotal)
}

// InodePercentUsed10 returns used-inode percentage, x10-scaled, 0 if the
// filesystem reports zero total inodes (spec §4.2 "silently skipped").
func (u FilesystemUsage) InodePercentUsed10() int64 {
	if u.InodesTotal == 0 {
		return 0
	}
	used := u.InodesTotal - u.InodesFree
	return int64(used * 1000 / u.InodesTotal)
}
