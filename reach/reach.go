// Package reach checks whether hosts on the joined network answer ICMP echo
// requests.
package reach

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/go-errors/errors"
	"github.com/jackpal/gateway"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const (
	DefaultTimeout = time.Second

	// protocol number of ICMP for IPv4
	protocolICMP = 1

	payload = "boardd"
)

type Logger interface {
	Debugf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}

type Config struct {
	// Privileged uses raw ICMP sockets instead of unprivileged ping sockets.
	Privileged bool

	// Timeout bounds the wait for each single reply.
	Timeout time.Duration

	Logger Logger
}

type Pinger struct {
	log        Logger
	privileged bool
	timeout    time.Duration
	id         int
}

// Stats summarises one run of echo requests.
type Stats struct {
	Sent     int
	Received int
	Rtts     []time.Duration
}

// Reachable reports whether at least one echo request got answered.
func (s *Stats) Reachable() bool {
	return s.Received > 0
}

// AverageRtt returns the mean round trip time of all answered requests.
func (s *Stats) AverageRtt() time.Duration {
	if len(s.Rtts) == 0 {
		return 0
	}

	var total time.Duration
	for _, rtt := range s.Rtts {
		total += rtt
	}

	return total / time.Duration(len(s.Rtts))
}

func NewPinger(config *Config) *Pinger {
	pinger := &Pinger{
		privileged: config.Privileged,
		timeout:    config.Timeout,
		id:         os.Getpid() & 0xffff,
	}

	if config.Logger != nil {
		pinger.log = config.Logger
	} else {
		pinger.log = noopLogger{}
	}

	if pinger.timeout <= 0 {
		pinger.timeout = DefaultTimeout
	}

	return pinger
}

// Ping sends count echo requests to ip, one after another, and collects the
// answered ones.
func (p *Pinger) Ping(ctx context.Context, ip net.IP, count int) (*Stats, error) {
	if ip.To4() == nil {
		return nil, errors.Errorf("only IPv4 addresses can be pinged, got %v", ip)
	}

	if count < 1 {
		count = 1
	}

	network := "udp4"
	if p.privileged {
		network = "ip4:icmp"
	}

	conn, err := icmp.ListenPacket(network, "0.0.0.0")
	if err != nil {
		return nil, errors.Errorf("could not open icmp socket: %v", err)
	}

	defer conn.Close()

	var dst net.Addr = &net.UDPAddr{IP: ip}
	if p.privileged {
		dst = &net.IPAddr{IP: ip}
	}

	stats := &Stats{}
	reply := make([]byte, 1500)

	for seq := 0; seq < count; seq++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		request, err := echoRequest(p.id, seq)
		if err != nil {
			return stats, err
		}

		sent := time.Now()

		if _, err := conn.WriteTo(request, dst); err != nil {
			return stats, errors.Errorf("could not send echo request to %v: %v", ip, err)
		}

		stats.Sent++

		deadline := sent.Add(p.timeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}

		if err := conn.SetReadDeadline(deadline); err != nil {
			return stats, errors.Errorf("could not set read deadline: %v", err)
		}

		for {
			n, peer, err := conn.ReadFrom(reply)
			if err != nil {
				p.log.Debugf("No reply from %v for seq %d: %v", ip, seq, err)
				break
			}

			if !sameHost(peer, ip) {
				continue
			}

			ok, err := isEchoReply(reply[:n], seq)
			if err != nil {
				p.log.Debugf("Ignoring unparsable icmp message from %v: %v", peer, err)
				continue
			}

			if ok {
				rtt := time.Since(sent)
				stats.Received++
				stats.Rtts = append(stats.Rtts, rtt)
				p.log.Debugf("Reply from %v: seq=%d time=%v", ip, seq, rtt)
				break
			}
		}
	}

	return stats, nil
}

// DefaultGateway returns the address of the default route's gateway.
func DefaultGateway() (net.IP, error) {
	ip, err := gateway.DiscoverGateway()
	if err != nil {
		return nil, errors.Errorf("could not discover gateway: %v", err)
	}

	return ip, nil
}

func echoRequest(id int, seq int) ([]byte, error) {
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: []byte(payload),
		},
	}

	b, err := msg.Marshal(nil)
	if err != nil {
		return nil, errors.Errorf("could not build echo request: %v", err)
	}

	return b, nil
}

// isEchoReply matches replies by sequence only, since ping sockets rewrite
// the identifier.
func isEchoReply(b []byte, seq int) (bool, error) {
	msg, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil {
		return false, err
	}

	if msg.Type != ipv4.ICMPTypeEchoReply {
		return false, nil
	}

	echo, ok := msg.Body.(*icmp.Echo)
	if !ok {
		return false, nil
	}

	return echo.Seq == seq, nil
}

func sameHost(addr net.Addr, ip net.IP) bool {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP.Equal(ip)
	case *net.IPAddr:
		return a.IP.Equal(ip)
	default:
		return false
	}
}
