package network

import (
	"net"
	"time"
)

// StateChange is delivered to subscribers whenever the supervisor changes state.
type StateChange struct {
	State   State
	Ssid    string
	Status  Status
	Address net.IP
	Time    time.Time
}

type Client struct {
	Updates    <-chan *StateChange
	Id         uint32
	updates    chan *StateChange
	supervisor *Supervisor
}

// Cancel stops the subscription and closes Updates.
func (c *Client) Cancel() {
	c.supervisor.deleteClient(c.Id)
}
