package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/brawler/arena"
	"github.com/milk9111/brawler/netplay"
	"github.com/milk9111/brawler/policy"
)

const (
	msgButtons  = "buttons"
	msgSnapshot = "snapshot"
)

// snapshotEvery is how many frames pass between outgoing snapshots.
const snapshotEvery = 30

// netSession exchanges button states and snapshots with relay peers. Remote
// data only ever feeds a Network peer controller and the HUD; it never
// blocks or decides anything on its own.
type netSession struct {
	client *netplay.Client
	log    *zap.Logger

	remote    policy.Buttons
	peer      string
	peerTick  int
	peerRound int
	received  int
	dropped   int
}

func newNetSession(client *netplay.Client, log *zap.Logger) *netSession {
	return &netSession{client: client, log: log}
}

func (n *netSession) Connected() bool {
	return n != nil && n.client.Connected()
}

func (n *netSession) SendButtons(tick int, b policy.Buttons) {
	if !n.Connected() {
		return
	}
	pressed := make([]string, 0, 5)
	for _, a := range policy.Actions() {
		if b.Pressed(a) {
			pressed = append(pressed, a.String())
		}
	}
	if !n.client.TrySend(netplay.Message{"type": msgButtons, "tick": tick, "pressed": pressed}) {
		n.dropped++
	}
}

func (n *netSession) SendSnapshot(s arena.Snapshot) {
	if !n.Connected() {
		return
	}
	msg, err := netplay.ToMessage(s)
	if err != nil {
		n.log.Warn("snapshot encode failed", zap.Error(err))
		return
	}
	msg["type"] = msgSnapshot
	if !n.client.TrySend(msg) {
		n.dropped++
	}
}

// Poll applies every message received since the last frame. Later button
// messages overwrite earlier ones.
func (n *netSession) Poll() {
	if n == nil {
		return
	}
	for _, msg := range n.client.PollReceived() {
		n.received++
		if id, ok := msg[netplay.PeerKey].(string); ok {
			n.peer = id
		}
		switch msg["type"] {
		case msgButtons:
			n.remote = decodeButtons(msg["pressed"])
			if tick, ok := msg["tick"].(float64); ok {
				n.peerTick = int(tick)
			}
		case msgSnapshot:
			if round, ok := msg["round"].(float64); ok {
				n.peerRound = int(round)
			}
		default:
			n.log.Debug("ignoring peer message", zap.Any("type", msg["type"]))
		}
	}
}

func decodeButtons(v any) policy.Buttons {
	var b policy.Buttons
	list, _ := v.([]any)
	for _, item := range list {
		name, _ := item.(string)
		if a, ok := policy.ParseAction(name); ok {
			b = b.With(a, true)
		}
	}
	return b
}

// Status is a one-line summary for the HUD.
func (n *netSession) Status() string {
	if !n.Connected() {
		return "net: offline"
	}
	peer := "none"
	if len(n.peer) >= 8 {
		peer = n.peer[:8]
	}
	return fmt.Sprintf("net: peer %s round %d tick %d  rx %d  dropped %d", peer, n.peerRound, n.peerTick, n.received, n.dropped)
}

func (n *netSession) Close() {
	if n == nil {
		return
	}
	if err := n.client.Close(); err != nil {
		n.log.Debug("net close", zap.Error(err))
	}
}
