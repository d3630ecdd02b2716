package checker

import "github.com/ftahirops/validatord/model"

// CheckProgram implements the Program ServiceChecker (spec §4.6 "Program"):
// delegate entirely to ProgramRunner, which owns the Idle/Running/Exited
// state machine.
func CheckProgram(ctx *Context, svc *model.Service) {
	ctx.Runner.Tick(svc, svc.Path, svc.ProgramTimeout, ctx.Bridge)
}
