package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const echoPayload = "pingmon"

// ICMPProber sends ICMP echo requests using raw sockets. Requires elevated
// privileges on most systems; see FallbackProber.
type ICMPProber struct {
	id  int
	seq uint32
}

// NewICMPProber initializes a prober with a process-scoped echo identifier.
func NewICMPProber() *ICMPProber {
	return &ICMPProber{id: os.Getpid() & 0xffff}
}

// Probe sends one echo request and waits for the matching reply.
func (p *ICMPProber) Probe(ctx context.Context, target string, timeout time.Duration) Result {
	if err := ctx.Err(); err != nil {
		return Result{Target: target, Err: err}
	}

	addr, err := net.ResolveIPAddr("ip", target)
	if err != nil {
		return Result{Target: target, Err: err}
	}
	if addr.IP == nil {
		return Result{Target: target, Err: fmt.Errorf("invalid address: %s", target)}
	}

	network, protocol, requestType, replyType := icmpSettings(addr.IP)
	conn, err := icmp.ListenPacket(network, "")
	if err != nil {
		return Result{Target: target, Err: err}
	}
	defer conn.Close()

	seq := int(atomic.AddUint32(&p.seq, 1) & 0xffff)
	msg := icmp.Message{
		Type: requestType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: []byte(echoPayload),
		},
	}
	payload, err := msg.Marshal(nil)
	if err != nil {
		return Result{Target: target, Err: err}
	}

	if err := conn.SetDeadline(replyDeadline(ctx, timeout)); err != nil {
		return Result{Target: target, Err: err}
	}

	start := time.Now()
	if _, err := conn.WriteTo(payload, addr); err != nil {
		return Result{Target: target, Err: err}
	}

	buf := make([]byte, 1500)
	for {
		if err := ctx.Err(); err != nil {
			return Result{Target: target, Err: err}
		}

		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return Result{Target: target, Err: fmt.Errorf("probe timeout: %w", err)}
			}
			return Result{Target: target, Err: err}
		}
		if peer == nil {
			continue
		}

		reply, err := icmp.ParseMessage(protocol, buf[:n])
		if err != nil {
			continue
		}
		if reply.Type != replyType {
			continue
		}
		body, ok := reply.Body.(*icmp.Echo)
		if !ok || body.ID != p.id || body.Seq != seq {
			continue
		}

		return Result{Target: target, Success: true, Latency: time.Since(start), Sampled: true}
	}
}

func icmpSettings(ip net.IP) (network string, protocol int, requestType icmp.Type, replyType icmp.Type) {
	if ip.To4() != nil {
		return "ip4:icmp", ipv4.ICMPTypeEcho.Protocol(), ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply
	}
	return "ip6:ipv6-icmp", ipv6.ICMPTypeEchoRequest.Protocol(), ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply
}

func replyDeadline(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}
