package checker

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/rule"
)

// CheckDirectory implements the Directory ServiceChecker (spec §4.6
// "Directory / Fifo"): stat, require correct file type, then perm/uid/gid/
// timestamp rules.
func CheckDirectory(ctx *Context, svc *model.Service) {
	checkStatTyped(ctx, svc, func(m os.FileMode) bool { return m.IsDir() }, "directory")
}

// CheckFifo implements the Fifo ServiceChecker, sharing CheckDirectory's
// shape but requiring the named-pipe file type.
func CheckFifo(ctx *Context, svc *model.Service) {
	checkStatTyped(ctx, svc, func(m os.FileMode) bool { return m&os.ModeNamedPipe != 0 }, "fifo")
}

func checkStatTyped(ctx *Context, svc *model.Service, isType func(os.FileMode) bool, typeName string) {
	st, err := os.Stat(svc.Path)
	if !postNonexist(ctx, svc, err) {
		return
	}
	if !postInvalid(ctx, svc, isType(st.Mode()), fmt.Sprintf("%s is not a %s", svc.Path, typeName)) {
		return
	}

	sys, ok := st.Sys().(*syscall.Stat_t)
	var mode uint32
	var uid, gid int
	ctime := st.ModTime()
	if ok {
		mode = sys.Mode
		uid = int(sys.Uid)
		gid = int(sys.Gid)
		ctime = time.Unix(sys.Ctim.Sec, sys.Ctim.Nsec)
	}
	svc.Inf.Mode = mode
	svc.Inf.UID = uid
	svc.Inf.GID = gid
	svc.Inf.Mtime = st.ModTime()
	svc.Inf.Ctime = ctime

	rule.Permission(svc, svc.Permission, mode, ctx.Bridge)
	rule.UID(svc, svc.UID, uid, ctx.Bridge)
	rule.GID(svc, svc.GID, gid, ctx.Bridge)
	for _, tr := range svc.Timestamp {
		rule.Timestamp(svc, tr, st.ModTime(), ctime, ctx.Bridge)
	}
}
