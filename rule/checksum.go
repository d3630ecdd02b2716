package rule

import (
	"fmt"
	"strings"

	"github.com/ftahirops/validatord/model"
)

// Checksum evaluates one Checksum rule (spec §4.2 "Checksum"). digest is the
// freshly computed lowercase hex digest; computeErr, if non-nil, means the
// backing store failed to produce it, which is reported as a Data FAILED
// event rather than a Checksum event.
func Checksum(svc *model.Service, r *model.ChecksumRule, digest string, computeErr error, bridge EventPoster) {
	if r == nil {
		return
	}
	if computeErr != nil {
		bridge.Post(svc, model.EventData, model.StateFailed, r.Action,
			fmt.Sprintf("checksum compute failed: %v", computeErr))
		return
	}
	digest = strings.ToLower(digest)

	if !r.Initialized {
		r.Initialized = true
		r.Expected = digest
		return
	}

	matches := digest == r.Expected
	if !r.ChangeDetect {
		if matches {
			bridge.Post(svc, model.EventChecksum, model.StateSucceeded, r.Action,
				fmt.Sprintf("checksum %s matches expected", digest))
			return
		}
		bridge.Post(svc, model.EventChecksum, model.StateFailed, r.Action,
			fmt.Sprintf("checksum %s != expected %s", digest, r.Expected))
		return
	}

	if !matches {
		bridge.Post(svc, model.EventChecksum, model.StateChanged, r.Action,
			fmt.Sprintf("checksum changed from %s to %s", r.Expected, digest))
		r.Expected = digest
		return
	}
	bridge.Post(svc, model.EventChecksum, model.StateChangedNot, r.Action,
		fmt.Sprintf("checksum unchanged: %s", digest))
}
