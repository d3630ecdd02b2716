package rule

import (
	"time"

	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/predicate"
)

// Timestamp evaluates one Timestamp rule (spec §4.2 "Timestamp"), computed
// from max(mtime, ctime). Constant-value rules compare now-observed seconds
// ago against Limit; change-detection rules compare stored-vs-current.
func Timestamp(svc *model.Service, r *model.TimestampRule, mtime, ctime time.Time, bridge EventPoster) {
	if r == nil {
		return
	}
	observed := mtime
	if ctime.After(observed) {
		observed = ctime
	}
	observedUnix := observed.Unix()

	if !r.ChangeDetect {
		secondsAgo := time.Now().Unix() - observedUnix
		if predicate.Eval(r.Op, secondsAgo, r.Limit) {
			bridge.Post(svc, model.EventTimestamp, model.StateFailed, r.Action,
				predicate.Report("timestamp age", secondsAgo, r.Limit, r.Op, "s"))
			return
		}
		bridge.Post(svc, model.EventTimestamp, model.StateSucceeded, r.Action,
			predicate.Report("timestamp age", secondsAgo, r.Limit, r.Op, "s"))
		return
	}

	if !r.Initialized {
		r.Initialized = true
		r.Last = observedUnix
		return
	}
	if observedUnix != r.Last {
		bridge.Post(svc, model.EventTimestamp, model.StateChanged, r.Action,
			predicate.Report("timestamp", observedUnix, r.Last, model.OpNe, "s"))
		r.Last = observedUnix
		return
	}
	bridge.Post(svc, model.EventTimestamp, model.StateChangedNot, r.Action,
		predicate.Report("timestamp", observedUnix, r.Last, model.OpEq, "s"))
}

// Uptime evaluates the Uptime rule (spec §4.2 "Uptime (process only)").
func Uptime(svc *model.Service, r *model.UptimeRule, uptimeSec int64, bridge EventPoster) {
	if r == nil {
		return
	}
	if predicate.Eval(r.Op, uptimeSec, r.Limit) {
		bridge.Post(svc, model.EventUptime, model.StateFailed, r.Action,
			predicate.Report("uptime", uptimeSec, r.Limit, r.Op, "s"))
		return
	}
	bridge.Post(svc, model.EventUptime, model.StateSucceeded, r.Action,
		predicate.Report("uptime", uptimeSec, r.Limit, r.Op, "s"))
}

// ProcessState evaluates the zombie check (spec §4.2 "Process state").
func ProcessState(svc *model.Service, zombie bool, action model.ActionRef, bridge EventPoster) {
	if zombie {
		bridge.Post(svc, model.EventData, model.StateFailed, action, "process is a zombie")
		return
	}
	bridge.Post(svc, model.EventData, model.StateSucceeded, action, "process state ok")
}

// PidChange evaluates the Pid change-detector (spec §4.2 "Pid / PPid
// change"): if prev is the -1 sentinel, no event is posted.
func PidChange(svc *model.Service, prev, current int, action model.ActionRef, bridge EventPoster) {
	if prev == -1 {
		return
	}
	if prev != current {
		bridge.Post(svc, model.EventPid, model.StateChanged, action,
			predicate.Report("pid", int64(current), int64(prev), model.OpNe, ""))
		return
	}
	bridge.Post(svc, model.EventPid, model.StateChangedNot, action,
		predicate.Report("pid", int64(current), int64(prev), model.OpEq, ""))
}

// PPidChange evaluates the PPid change-detector, mirroring PidChange.
func PPidChange(svc *model.Service, prev, current int, action model.ActionRef, bridge EventPoster) {
	if prev == -1 {
		return
	}
	if prev != current {
		bridge.Post(svc, model.EventPPid, model.StateChanged, action,
			predicate.Report("ppid", int64(current), int64(prev), model.OpNe, ""))
		return
	}
	bridge.Post(svc, model.EventPPid, model.StateChangedNot, action,
		predicate.Report("ppid", int64(current), int64(prev), model.OpEq, ""))
}

// FilesystemFlags evaluates the Filesystem-flags rule (spec §4.2 "Filesystem
// flags"): no event while hasPrev is false (no previous flags sample yet);
// no SUCCEEDED counterpart once it is set.
func FilesystemFlags(svc *model.Service, r *model.FilesystemFlagRule, hasPrev bool, prev, current int64, bridge EventPoster) {
	if r == nil || !hasPrev {
		return
	}
	if prev != current {
		bridge.Post(svc, model.EventFsflag, model.StateChanged, r.Action,
			predicate.Report("fsflags", current, prev, model.OpNe, ""))
	}
}
