package rule

import (
	"log/slog"

	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/predicate"
)

// FSResourceInput bundles the filesystem sample an FSResourceRule is
// evaluated against: the percent-used (x10) and the free/total counts for
// whichever Kind (inode or space) the rule names.
type FSResourceInput struct {
	PercentUsed10 int64
	FreeCount     uint64
	TotalCount    uint64
}

// FSResource evaluates one Filesystem-resources rule (spec §4.2 "Filesystem
// resources"). Exactly one of PercentLimit/CountLimit must be set (-1 marks
// absent); a rule with neither or both set is an internal-consistency error,
// logged and skipped without posting an event (spec §7 error plane 3). Inode
// rules are silently skipped when the filesystem reports zero total inodes.
func FSResource(svc *model.Service, r *model.FSResourceRule, in FSResourceInput, log *slog.Logger, bridge EventPoster) {
	if r == nil {
		return
	}
	if r.Kind == model.FSResourceInode && in.TotalCount == 0 {
		return
	}

	hasPercent := r.PercentLimit != -1
	hasCount := r.CountLimit != -1
	if hasPercent == hasCount {
		log.Error("fsresource rule misconfigured: exactly one of percent/count limit must be set",
			"service", svc.Name, "kind", r.Kind)
		return
	}

	var value, limit int64
	var report string
	if hasPercent {
		value, limit = in.PercentUsed10, r.PercentLimit
		report = predicate.ReportPercent10("fs resource", value, limit, r.Op)
	} else {
		value, limit = int64(in.FreeCount), r.CountLimit
		report = predicate.Report("fs resource count", value, limit, r.Op, "")
	}

	if predicate.Eval(r.Op, value, limit) {
		bridge.Post(svc, model.EventResource, model.StateFailed, r.Action, report)
		return
	}
	bridge.Post(svc, model.EventResource, model.StateSucceeded, r.Action, report)
}
