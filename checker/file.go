package checker

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/ftahirops/validatord/collector"
	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/rule"
)

// CheckFile implements the File ServiceChecker (spec §4.6 "File"): stat,
// require regular file, track previous inode, then run checksum, perm,
// uid, gid, size, timestamp, and match rules.
func CheckFile(ctx *Context, svc *model.Service) {
	st, err := os.Stat(svc.Path)
	if !postNonexist(ctx, svc, err) {
		return
	}
	if !postInvalid(ctx, svc, st.Mode().IsRegular(), fmt.Sprintf("%s is not a regular file", svc.Path)) {
		return
	}

	sys, ok := st.Sys().(*syscall.Stat_t)
	var inode uint64
	var mode uint32
	var uid, gid int
	ctime := st.ModTime()
	if ok {
		inode = sys.Ino
		mode = sys.Mode
		uid = int(sys.Uid)
		gid = int(sys.Gid)
		ctime = time.Unix(sys.Ctim.Sec, sys.Ctim.Nsec)
	}

	prevInode := svc.Inf.File.Inode
	hadPrevInode := svc.Inf.File.HasPrevInode
	inodeChanged := hadPrevInode && prevInode != inode

	svc.Inf.Mode = mode
	svc.Inf.UID = uid
	svc.Inf.GID = gid
	svc.Inf.Mtime = st.ModTime()
	svc.Inf.Ctime = ctime
	svc.Inf.File.PrevInode = prevInode
	svc.Inf.File.HasPrevInode = true
	svc.Inf.File.Inode = inode
	svc.Inf.File.Size = st.Size()

	rule.Permission(svc, svc.Permission, mode, ctx.Bridge)
	rule.UID(svc, svc.UID, uid, ctx.Bridge)
	rule.GID(svc, svc.GID, gid, ctx.Bridge)

	for _, cr := range svc.Checksum {
		digest, cerr := collector.Checksum(svc.Path, cr.Hash)
		rule.Checksum(svc, cr, digest, cerr, ctx.Bridge)
	}

	rule.Sizes(svc, svc.Size, st.Size(), ctx.Bridge)

	for _, tr := range svc.Timestamp {
		rule.Timestamp(svc, tr, st.ModTime(), ctime, ctx.Bridge)
	}

	if len(svc.Match) > 0 || len(svc.MatchIgnore) > 0 {
		if err := rule.Match(svc, svc.Path, &svc.Inf.File.ReadPos, st.Size(), inodeChanged, svc.MatchIgnore, svc.Match, ctx.Bridge); err != nil {
			ctx.Bridge.Post(svc, model.EventData, model.StateFailed, "", fmt.Sprintf("match tailing failed: %v", err))
		}
	}
}
