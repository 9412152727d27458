// Package transport implements the websocket client loop shared by
// cmd/bot and cmd/controlpanel: dial, send HELLO, decode every server
// message into the appropriate internal/core.Bot callback, and write
// back the chosen action after each SELF/MAZE observation. Grounded on
// the teacher's cmd/bot/main.go dial/HELLO/read-loop shape.
package transport

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gorilla/websocket"

	"mazebot.ai/internal/agents"
	"mazebot.ai/internal/core"
	"mazebot.ai/internal/protocol"
)

// Client owns one websocket connection and the Bot it drives.
type Client struct {
	conn   *websocket.Conn
	bot    *core.Bot
	logger *log.Logger

	selfSeen map[string]struct{}
}

// Dial connects to url, sends a HELLO as name, and returns a Client
// ready to Run. Callers must Close it when done.
func Dial(url, name string, bot *core.Bot, logger *log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		AgentName:       name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send HELLO: %w", err)
	}
	return &Client{conn: conn, bot: bot, logger: logger, selfSeen: make(map[string]struct{})}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Run reads and dispatches server messages until the connection closes
// or stop is signaled. It is the sole owner of the connection's read
// loop; callers that also want live state (a control panel) read it
// off bot.Sink() concurrently rather than sharing the connection.
func (c *Client) Run(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}

		if !c.dispatch(base.Type, msg) {
			continue
		}
		// NextMove is driven off SELF/MAZE updates only, per the
		// protocol's one-decision-per-observation cadence; AGENT_EVENT,
		// BAIT_* and PAUSE only mutate state.
		if base.Type != protocol.TypeSelf && base.Type != protocol.TypeMaze {
			continue
		}

		action := c.bot.NextMove()
		act := protocol.ActMsg{
			Type:   protocol.TypeAct,
			Tick:   c.bot.Tick(),
			Action: action.String(),
		}
		if err := c.conn.WriteJSON(act); err != nil {
			return fmt.Errorf("send ACT: %w", err)
		}
	}
}

func (c *Client) dispatch(msgType string, msg []byte) bool {
	switch msgType {
	case protocol.TypeWelcome:
		var w protocol.WelcomeMsg
		if err := json.Unmarshal(msg, &w); err != nil {
			return false
		}
		if c.logger != nil {
			c.logger.Printf("WELCOME agent_id=%s", w.AgentID)
		}
		return true

	case protocol.TypeMaze:
		var m protocol.MazeMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return false
		}
		c.bot.OnMaze(m.Width, m.Height, m.Rows)
		return true

	case protocol.TypeBaitAppeared:
		var b protocol.BaitMsg
		if err := json.Unmarshal(msg, &b); err != nil {
			return false
		}
		c.bot.OnBaitAppeared(b.X, b.Y, b.Score, b.Kind)
		return true

	case protocol.TypeBaitVanished:
		var b protocol.BaitMsg
		if err := json.Unmarshal(msg, &b); err != nil {
			return false
		}
		c.bot.OnBaitVanished(b.X, b.Y)
		return true

	case protocol.TypeSelf:
		var s protocol.SelfMsg
		if err := json.Unmarshal(msg, &s); err != nil {
			return false
		}
		if s.Vanish {
			c.bot.OnSelfVanish(s.ID)
			return true
		}
		facing := agents.ParseFacing(s.Facing)
		if _, have := c.selfSeen[s.ID]; !have {
			c.selfSeen[s.ID] = struct{}{}
			c.bot.OnSelfLogin(s.ID, s.X, s.Y, facing, s.Nickname)
		} else {
			c.bot.OnSelfUpdate(s.ID, s.X, s.Y, facing, s.Nickname)
		}
		return true

	case protocol.TypeAgentEvent:
		var a protocol.AgentEventMsg
		if err := json.Unmarshal(msg, &a); err != nil {
			return false
		}
		snap := agents.Snapshot{ID: a.ID, X: a.X, Y: a.Y, Facing: agents.ParseFacing(a.Facing), Nickname: a.Nickname}
		c.bot.OnAgent(core.AgentEventKind(a.Kind), a.OldX, a.OldY, snap, a.TeleportKind, a.CauseAgentID)
		return true

	case protocol.TypePause:
		var p protocol.PauseMsg
		if err := json.Unmarshal(msg, &p); err != nil {
			return false
		}
		c.bot.OnPauseToggle(p.Paused)
		return true

	default:
		return false
	}
}
