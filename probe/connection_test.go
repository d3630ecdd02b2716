package probe

import (
	"net"
	"testing"
	"time"

	"github.com/ftahirops/validatord/model"
)

func TestConnectionSucceedsAgainstOpenListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	p := &model.Port{
		Address:     ln.Addr().String(),
		Protocol:    model.ProtoTCP,
		Retry:       1,
		ConnTimeout: time.Second,
	}
	res := Connection(p, DefaultProtocol{})
	if !res.Available {
		t.Fatalf("expected available, got report: %s", res.Report)
	}
	if res.ResponseTime < 0 {
		t.Fatalf("expected non-negative response time, got %f", res.ResponseTime)
	}
}

func TestConnectionRetriesThenFailsAgainstClosedPort(t *testing.T) {
	// Bind and immediately close to get a port nothing is listening on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	p := &model.Port{
		Address:     addr,
		Protocol:    model.ProtoTCP,
		Retry:       3,
		ConnTimeout: 200 * time.Millisecond,
	}
	res := Connection(p, DefaultProtocol{})
	if res.Available {
		t.Fatalf("expected unavailable against a closed port")
	}
	if res.ResponseTime != -1 {
		t.Fatalf("expected response=-1 on exhaustion, got %f", res.ResponseTime)
	}
}
