package board

import (
	"context"
	"net"

	"github.com/the-lightning-land/boardd/reach"
)

type Api interface {
	SetBoard(b *Board)
	Serve(l net.Listener) error
}

type Announcer interface {
	Announce(name string, text []string) error
	Withdraw()
}

type Pinger interface {
	Ping(ctx context.Context, ip net.IP, count int) (*reach.Stats, error)
}
