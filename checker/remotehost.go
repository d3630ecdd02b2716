package checker

import (
	"fmt"
	"time"

	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/probe"
)

// CheckRemoteHost implements the RemoteHost ServiceChecker (spec §4.6
// "RemoteHost"): run every Icmp rule, then — unless the last ping in the
// list came back unavailable — run every Port's ConnectionProbe (spec §4.4
// "If the last ping in the list is unavailable, skip all port-connection
// checks for this cycle").
func CheckRemoteHost(ctx *Context, svc *model.Service) {
	lastAvailable := true
	for _, ir := range svc.Icmp {
		if ir.Type != "icmp" {
			ctx.Bridge.Post(svc, model.EventIcmp, model.StateFailed, ir.Action,
				fmt.Sprintf("unknown icmp type %q", ir.Type))
			svc.Monitor &^= model.MonitorYes
			return
		}

		rt, err := probe.Echo(svc.Path, time.Duration(ir.Timeout)*time.Millisecond, ir.Count)
		switch {
		case err == probe.ErrIcmpPermission:
			ir.SetLastAvailable(true)
			ctx.Log.Warn("icmp: permission denied opening raw socket, skipping", "service", svc.Name)
		case err != nil:
			ir.SetLastAvailable(false)
			ctx.Bridge.Post(svc, model.EventIcmp, model.StateFailed, ir.Action, err.Error())
		default:
			ir.SetLastAvailable(true)
			ctx.Bridge.Post(svc, model.EventIcmp, model.StateSucceeded, ir.Action,
				fmt.Sprintf("ping response %.6fs", rt))
		}
		lastAvailable = ir.LastAvailable()
	}

	if !lastAvailable {
		return
	}

	for _, port := range svc.Ports {
		res := probe.Connection(port, probe.ProtocolByName(port.Plugin))
		port.HasLastResponse = true
		port.LastResponse = res.ResponseTime
		port.LastAvailable = res.Available
		if res.Available {
			ctx.Bridge.Post(svc, model.EventConnection, model.StateSucceeded, "", res.Report)
		} else {
			ctx.Bridge.Post(svc, model.EventConnection, model.StateFailed, "", res.Report)
		}
	}
}
