package checker

import (
	"fmt"
	"os"
	"syscall"

	"github.com/ftahirops/validatord/collector"
	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/rule"
)

// CheckFilesystem implements the Filesystem ServiceChecker (spec §4.6
// "Filesystem"): stat (resolving a symlink if the path is one), capture
// mode/uid/gid, call the filesystem_usage collaborator, compute derived
// percentages, then run perm/uid/gid/flags/resource rules.
func CheckFilesystem(ctx *Context, svc *model.Service) {
	st, err := os.Lstat(svc.Path)
	if !postNonexist(ctx, svc, err) {
		return
	}
	if st.Mode()&os.ModeSymlink != 0 {
		st, err = os.Stat(svc.Path)
		if !postNonexist(ctx, svc, err) {
			return
		}
	} else {
		ctx.Bridge.Post(svc, model.EventNonexist, model.StateSucceeded, model.ActionNonexist, "present")
	}

	sys, ok := st.Sys().(*syscall.Stat_t)
	var mode uint32
	var uid, gid int
	if ok {
		mode = sys.Mode
		uid = int(sys.Uid)
		gid = int(sys.Gid)
	}
	svc.Inf.Mode = mode
	svc.Inf.UID = uid
	svc.Inf.GID = gid

	usage, err := collector.StatFilesystem(svc.Path)
	if err != nil {
		ctx.Bridge.Post(svc, model.EventData, model.StateFailed, "", fmt.Sprintf("filesystem_usage failed: %v", err))
		return
	}

	prevFlags := svc.Inf.Filesystem.Flags
	hadPrevFlags := svc.Inf.Filesystem.HasPrevFlags

	svc.Inf.Filesystem.BlocksTotal = usage.BlocksTotal
	svc.Inf.Filesystem.BlocksFree = usage.BlocksFree
	svc.Inf.Filesystem.InodesTotal = usage.InodesTotal
	svc.Inf.Filesystem.InodesFree = usage.InodesFree
	svc.Inf.Filesystem.PrevFlags = prevFlags
	svc.Inf.Filesystem.HasPrevFlags = true
	svc.Inf.Filesystem.Flags = usage.Flags
	svc.Inf.Filesystem.InodePercent10 = usage.InodePercentUsed10()
	svc.Inf.Filesystem.SpacePercent10 = usage.SpacePercentUsed10()
	svc.Inf.Filesystem.InodeTotal = usage.InodesTotal
	svc.Inf.Filesystem.SpaceTotal = usage.SpaceTotalBytes()

	rule.Permission(svc, svc.Permission, mode, ctx.Bridge)
	rule.UID(svc, svc.UID, uid, ctx.Bridge)
	rule.GID(svc, svc.GID, gid, ctx.Bridge)

	for _, fr := range svc.Filesystem {
		rule.FilesystemFlags(svc, fr, hadPrevFlags, prevFlags, usage.Flags, ctx.Bridge)
	}

	for _, fr := range svc.FSResource {
		var in rule.FSResourceInput
		if fr.Kind == model.FSResourceInode {
			in = rule.FSResourceInput{PercentUsed10: usage.InodePercentUsed10(), FreeCount: usage.InodesFree, TotalCount: usage.InodesTotal}
		} else {
			in = rule.FSResourceInput{PercentUsed10: usage.SpacePercentUsed10(), FreeCount: usage.BlocksFree, TotalCount: usage.BlocksTotal}
		}
		rule.FSResource(svc, fr, in, ctx.Log, ctx.Bridge)
	}
}
