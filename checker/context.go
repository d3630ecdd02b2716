// Package checker implements ServiceCheckers (spec §4.6): the top-level
// per-type dispatchers that collect fresh observation data for a service
// and invoke the relevant RuleCheckers.
package checker

import (
	"log/slog"

	"github.com/ftahirops/validatord/collector"
	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/program"
)

// EventPoster is the subset of event.Bridge every checker needs.
type EventPoster interface {
	Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string)
}

// Context groups the per-cycle shared state a checker needs (event bridge,
// system info, process tree, program runner, logger) into a single value
// threaded through every checker, rather than reading package-level
// mutable state. The service list stays on the Scheduler, and previous
// pid/ppid values live on each service's observation.
type Context struct {
	Bridge EventPoster
	Sys    *collector.SysInfo
	Tree   *collector.Tree
	Runner *program.Runner
	Log    *slog.Logger
}

// Dispatch routes a service to its type-specific checker (spec §4.6).
func Dispatch(ctx *Context, svc *model.Service) {
	switch svc.Type {
	case model.ServiceProcess:
		CheckProcess(ctx, svc)
	case model.ServiceFilesystem:
		CheckFilesystem(ctx, svc)
	case model.ServiceFile:
		CheckFile(ctx, svc)
	case model.ServiceDirectory:
		CheckDirectory(ctx, svc)
	case model.ServiceFifo:
		CheckFifo(ctx, svc)
	case model.ServiceProgram:
		CheckProgram(ctx, svc)
	case model.ServiceRemoteHost:
		CheckRemoteHost(ctx, svc)
	case model.ServiceSystem:
		CheckSystem(ctx, svc)
	default:
		ctx.Log.Error("unknown service type", "service", svc.Name, "type", svc.Type)
	}
}

// postNonexist posts the Nonexist event pair and marks monitoring disabled
// on failure (spec §4.6 "if missing post Nonexist FAILED and return fatal").
func postNonexist(ctx *Context, svc *model.Service, err error) bool {
	if err != nil {
		svc.Monitor &^= model.MonitorYes
		ctx.Bridge.Post(svc, model.EventNonexist, model.StateFailed, model.ActionNonexist, err.Error())
		return false
	}
	ctx.Bridge.Post(svc, model.EventNonexist, model.StateSucceeded, model.ActionNonexist, "present")
	return true
}

// postInvalid posts the Invalid event pair (spec §4.6 "require regular file
// / correct file type").
func postInvalid(ctx *Context, svc *model.Service, ok bool, reason string) bool {
	if !ok {
		svc.Monitor &^= model.MonitorYes
		ctx.Bridge.Post(svc, model.EventInvalid, model.StateFailed, model.ActionInvalid, reason)
		return false
	}
	ctx.Bridge.Post(svc, model.EventInvalid, model.StateSucceeded, model.ActionInvalid, "valid type")
	return true
}

// clearSticky clears a prior Exec/Timeout sticky error by posting SUCCEEDED
// unconditionally (spec §4.6 "clear any prior Exec and Timeout sticky
// errors (with SUCCEEDED posts)").
func clearSticky(ctx *Context, svc *model.Service) {
	ctx.Bridge.Post(svc, model.EventExec, model.StateSucceeded, "", "process running")
	ctx.Bridge.Post(svc, model.EventTimeout, model.StateSucceeded, "", "no restart timeout")
}
