package probe

import (
	"fmt"
	"net"
	"time"

	"github.com/ftahirops/validatord/model"
)

// network returns the Go net package network name for a Port's protocol.
func network(p *model.Port) string {
	switch p.Protocol {
	case model.ProtoUDP:
		return "udp"
	case model.ProtoUnix:
		return "unix"
	default:
		return "tcp"
	}
}

// Result is the outcome of one ConnectionProbe attempt.
type Result struct {
	Available    bool
	ResponseTime float64 // seconds, -1 on failure
	Report       string
}

// Connection runs the ConnectionProbe algorithm (spec §4.3): open, verify
// readiness where required, run the protocol check, time it, and retry from
// scratch on any failure until the Port's retry budget is exhausted.
func Connection(p *model.Port, proto Protocol) Result {
	var lastErr error
	attempts := p.Retry
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		start := time.Now()
		resp, err := attemptOnce(p, proto)
		if err == nil {
			elapsed := time.Since(start).Seconds()
			return Result{
				Available:    true,
				ResponseTime: elapsed,
				Report:       fmt.Sprintf("connection succeeded to %s after %.6fs", p.Address, elapsed),
			}
		}
		lastErr = err
		_ = resp
	}

	return Result{
		Available:    false,
		ResponseTime: -1,
		Report:       fmt.Sprintf("connection to %s failed: %v", p.Address, lastErr),
	}
}

// attemptOnce performs exactly one open->readiness->protocol-check pass
// (spec §4.3 steps 1-4).
func attemptOnce(p *model.Port, proto Protocol) (struct{}, error) {
	timeout := p.ConnTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	conn, err := net.DialTimeout(network(p), p.Address, timeout)
	if err != nil {
		return struct{}{}, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// Readiness: required for TCP always, and for UDP only with a
	// non-default protocol plugin (spec §4.3 step 3). Unix-domain sockets
	// are connection-oriented like TCP.
	needsReadiness := p.Protocol != model.ProtoUDP || !IsDefault(proto)
	if needsReadiness {
		if err := checkReady(conn, timeout); err != nil {
			return struct{}{}, fmt.Errorf("readiness: %w", err)
		}
	}

	if err := proto.Check(conn, timeout); err != nil {
		return struct{}{}, fmt.Errorf("protocol %s: %w", proto.Name(), err)
	}
	return struct{}{}, nil
}

// checkReady sets the connection's read/write deadline to timeout from now.
// It performs no I/O, so it detects no failure beyond what the dial already
// reported; only an error from setting the deadline fails it.
func checkReady(conn net.Conn, timeout time.Duration) error {
	return conn.SetDeadline(time.Now().Add(timeout))
}
