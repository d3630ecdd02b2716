package probe

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// ErrIcmpPermission is the spec §4.4 "-2" sentinel: permission denied opening
// a raw socket. The caller treats this as available (skip, don't alert).
var ErrIcmpPermission = errors.New("icmp: permission denied opening raw socket")

// ErrIcmpFailed is the spec §4.4 "-1" sentinel: the ping failed outright.
var ErrIcmpFailed = errors.New("icmp: echo request failed")

// Echo implements the spec §6 `icmp_echo(host, timeout, count)` collaborator
// using golang.org/x/net/icmp for a real (non-privileged-helper) echo,
// grounded on golang.org/x/net usage across the retrieval pack (see
// DESIGN.md). It sends up to count echo requests and returns the response
// time of the first that succeeds.
func Echo(host string, timeout time.Duration, count int) (float64, error) {
	if count < 1 {
		count = 1
	}

	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		if os.IsPermission(err) {
			return 0, ErrIcmpPermission
		}
		return 0, fmt.Errorf("%w: %v", ErrIcmpFailed, err)
	}
	defer conn.Close()

	dst, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		return 0, fmt.Errorf("%w: resolve %s: %v", ErrIcmpFailed, host, err)
	}

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho, Code: 0,
		Body: &icmp.Echo{ID: os.Getpid() & 0xffff, Seq: 1, Data: []byte("validatord")},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return 0, fmt.Errorf("%w: marshal: %v", ErrIcmpFailed, err)
	}

	var lastErr error
	for i := 0; i < count; i++ {
		start := time.Now()
		if _, err := conn.WriteTo(wb, &net.IPAddr{IP: dst.IP}); err != nil {
			lastErr = err
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
		rb := make([]byte, 1500)
		n, _, err := conn.ReadFrom(rb)
		if err != nil {
			lastErr = err
			continue
		}
		rm, err := icmp.ParseMessage(1 /* IANA protocol number for ICMPv4 */, rb[:n])
		if err != nil {
			lastErr = err
			continue
		}
		if rm.Type == ipv4.ICMPTypeEchoReply {
			return time.Since(start).Seconds(), nil
		}
		lastErr = fmt.Errorf("unexpected icmp type %v", rm.Type)
	}
	return 0, fmt.Errorf("%w: %v", ErrIcmpFailed, lastErr)
}
