package rule

import (
	"fmt"

	"github.com/ftahirops/validatord/model"
)

// Permission evaluates the Permission rule (spec §4.2 "Permission"):
// failure when mode&0o7777 != expected.
func Permission(svc *model.Service, r *model.PermissionRule, mode uint32, bridge EventPoster) {
	if r == nil {
		return
	}
	actual := mode & 0o7777
	if actual != r.Expected {
		bridge.Post(svc, model.EventPermission, model.StateFailed, r.Action,
			fmt.Sprintf("permission %04o != expected %04o", actual, r.Expected))
		return
	}
	bridge.Post(svc, model.EventPermission, model.StateSucceeded, r.Action,
		fmt.Sprintf("permission %04o", actual))
}

// UID evaluates the Uid rule (spec §4.2 "Uid/Gid"): failure on numeric
// inequality.
func UID(svc *model.Service, r *model.UIDRule, uid int, bridge EventPoster) {
	if r == nil {
		return
	}
	if uid != r.Expected {
		bridge.Post(svc, model.EventUID, model.StateFailed, r.Action,
			fmt.Sprintf("uid %d != expected %d", uid, r.Expected))
		return
	}
	bridge.Post(svc, model.EventUID, model.StateSucceeded, r.Action,
		fmt.Sprintf("uid %d", uid))
}

// GID evaluates the Gid rule.
func GID(svc *model.Service, r *model.GIDRule, gid int, bridge EventPoster) {
	if r == nil {
		return
	}
	if gid != r.Expected {
		bridge.Post(svc, model.EventGID, model.StateFailed, r.Action,
			fmt.Sprintf("gid %d != expected %d", gid, r.Expected))
		return
	}
	bridge.Post(svc, model.EventGID, model.StateSucceeded, r.Action,
		fmt.Sprintf("gid %d", gid))
}
