package rule

import (
	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/predicate"
)

// Sizes evaluates a service's Size rule list (spec §4.2 "Size"). Per the
// documented (if possibly vestigial) behavior: constant-value rules are
// evaluated every cycle, but the loop breaks immediately after processing
// the first change-detection rule it encounters — so a change-detection
// rule that isn't first in the list still runs, but nothing after it does.
// See DESIGN.md's Open Question decision: reproduced literally rather than
// "fixed", since the behavior isn't documented as a bug to correct.
func Sizes(svc *model.Service, rules []*model.SizeRule, currentSize int64, bridge EventPoster) {
	for _, r := range rules {
		if !r.ChangeDetect {
			size(svc, r, currentSize, bridge)
			continue
		}
		size(svc, r, currentSize, bridge)
		break
	}
}

func size(svc *model.Service, r *model.SizeRule, currentSize int64, bridge EventPoster) {
	if !r.ChangeDetect {
		if predicate.Eval(r.Op, currentSize, r.Limit) {
			bridge.Post(svc, model.EventSize, model.StateFailed, r.Action,
				predicate.ReportBytes("size", currentSize, r.Limit, r.Op))
			return
		}
		bridge.Post(svc, model.EventSize, model.StateSucceeded, r.Action,
			predicate.ReportBytes("size", currentSize, r.Limit, r.Op))
		return
	}

	if !r.Initialized {
		r.Initialized = true
		r.Last = currentSize
		return
	}
	if currentSize != r.Last {
		bridge.Post(svc, model.EventSize, model.StateChanged, r.Action,
			predicate.ReportBytes("size", currentSize, r.Last, model.OpNe))
		r.Last = currentSize
		return
	}
	bridge.Post(svc, model.EventSize, model.StateChangedNot, r.Action,
		predicate.ReportBytes("size", currentSize, r.Last, model.OpEq))
}
