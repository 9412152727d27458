package protocol

// HelloMsg is sent by the client on connect (client -> server).
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AgentName       string `json:"agent_name"`
}

// WelcomeMsg acknowledges a HELLO and assigns the agent id (server -> client).
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AgentID         string `json:"agent_id"`
}

// MazeMsg carries a full grid snapshot: one row per y, top-down. Rows may
// use any of the per-cell strides handled by internal/gridmodel.
type MazeMsg struct {
	Type   string   `json:"type"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   []string `json:"rows"`
}

// BaitMsg describes a single bait appearing or vanishing.
type BaitMsg struct {
	Type  string `json:"type"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Score int    `json:"score"`
	Kind  string `json:"kind"`
}

// SelfMsg carries the observing agent's own snapshot (login/update) or a
// vanish notice (Vanish=true, other fields ignored).
type SelfMsg struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Facing   string `json:"facing"`
	Nickname string `json:"nickname,omitempty"`
	Vanish   bool   `json:"vanish,omitempty"`
}

// AgentEventMsg reports another agent's appearance, vanish, step, turn or
// teleport.
type AgentEventMsg struct {
	Type         string `json:"type"`
	Kind         string `json:"kind"` // APPEAR, VANISH, STEP, TURN, TELEPORT
	ID           string `json:"id"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Facing       string `json:"facing"`
	Nickname     string `json:"nickname,omitempty"`
	OldX         int    `json:"old_x,omitempty"`
	OldY         int    `json:"old_y,omitempty"`
	TeleportKind string `json:"teleport_kind,omitempty"`
	CauseAgentID string `json:"cause_agent_id,omitempty"`
}

// PauseMsg toggles the external pause flag (server -> client).
type PauseMsg struct {
	Type   string `json:"type"`
	Paused bool   `json:"paused"`
}

// ActMsg carries the chosen action for the current tick (client -> server).
type ActMsg struct {
	Type   string `json:"type"`
	Tick   uint64 `json:"tick"`
	Action string `json:"action"` // TURN_LEFT, TURN_RIGHT, STEP, DO_NOTHING
}
