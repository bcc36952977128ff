package main

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	maxNameLen        = 16
	maxArenaNameLen   = 30
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	arenaID    string // arena being watched, "" if none
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	// Auth state
	operatorID   int64 // 0 = spectator only
	operatorName string
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("ws read failed", "addr", c.remoteAddr, "err", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Warn("rate limit exceeded, disconnecting", "addr", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("marshal failed", "err", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Debug("bad message", "addr", c.remoteAddr, "err", err)
		return
	}

	switch env.T {
	case MsgList:
		c.SendJSON(Envelope{T: MsgArenas, Data: c.hub.arenas.List()})
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgWatch:
		c.handleWatch(env.D)
	case MsgLeave:
		c.leaveArena()
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgSpawn, MsgDespawn, MsgFire, MsgBlock, MsgTame, MsgProtect, MsgUnprotect:
		if err := c.handleCommand(env.T, env.D); err != nil {
			c.sendError(err.Error())
		}
	}
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
	}
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		name = "Arena"
	}
	if len(name) > maxArenaNameLen {
		name = name[:maxArenaNameLen]
	}
	a := c.hub.arenas.Create(name)
	if a == nil {
		c.sendError("too many active arenas")
		return
	}
	c.SendJSON(Envelope{T: MsgCreated, Data: ArenaRef{ArenaID: a.ID}})
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg ArenaRef
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	a := c.hub.arenas.Get(msg.ArenaID)
	if a == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{ArenaID: msg.ArenaID}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{ArenaID: a.ID, Exists: true, Name: a.Name}})
}

func (c *Client) handleWatch(data json.RawMessage) {
	var msg ArenaRef
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	a := c.hub.arenas.Get(msg.ArenaID)
	if a == nil {
		c.sendError("arena not found")
		return
	}
	c.leaveArena()
	c.arenaID = a.ID
	a.AddSpectator(c)
	c.hub.arenas.MarkActive(a.ID)
	c.SendJSON(Envelope{T: MsgWatching, Data: ArenaRef{ArenaID: a.ID}})
}

// leaveArena stops spectating the current arena, if any
func (c *Client) leaveArena() {
	if c.arenaID == "" {
		return
	}
	if a := c.hub.arenas.Get(c.arenaID); a != nil {
		a.RemoveSpectator(c)
		c.hub.arenas.MarkActive(a.ID)
	}
	c.arenaID = ""
}

// watched returns the arena the client spectates
func (c *Client) watched() (*Arena, error) {
	if c.arenaID == "" {
		return nil, errors.New("not watching an arena")
	}
	a := c.hub.arenas.Get(c.arenaID)
	if a == nil {
		return nil, errors.New("arena not found")
	}
	return a, nil
}

// handleCommand runs an operator command against the watched arena
func (c *Client) handleCommand(kind string, data json.RawMessage) error {
	if c.operatorID == 0 {
		return ErrNotOperator
	}

	switch kind {
	case MsgProtect, MsgUnprotect:
		var msg NameMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return errors.New("bad request")
		}
		var err error
		if kind == MsgProtect {
			err = c.hub.protection.Protect(msg.Name, c.operatorID)
		} else {
			err = c.hub.protection.Unprotect(msg.Name)
		}
		if err != nil {
			return err
		}
		log.Info("protection changed", "op", c.operatorName, "action", kind, "name", msg.Name)
		c.SendJSON(Envelope{T: MsgProtected, Data: ProtectedMsg{Names: c.hub.protection.Names()}})
		return nil
	}

	a, err := c.watched()
	if err != nil {
		return err
	}
	c.hub.arenas.MarkActive(a.ID)

	switch kind {
	case MsgSpawn:
		var msg SpawnMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return errors.New("bad request")
		}
		name := strings.TrimSpace(msg.Name)
		if len(name) > maxNameLen {
			name = name[:maxNameLen]
		}
		id, err := a.SpawnEntity(msg.Species, name, mgl64.Vec3{msg.X, msg.Y, msg.Z})
		if err != nil {
			return err
		}
		c.SendJSON(Envelope{T: MsgSpawned, Data: SpawnedMsg{ID: int32(id)}})

	case MsgDespawn:
		var msg EntityRef
		if err := json.Unmarshal(data, &msg); err != nil {
			return errors.New("bad request")
		}
		if err := a.Despawn(EntityID(msg.ID)); err != nil {
			return err
		}
		c.SendJSON(Envelope{T: MsgOK, Data: msg})

	case MsgFire:
		var msg FireMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return errors.New("bad request")
		}
		sid, err := a.Fire(EntityID(msg.Shooter), msg.Yaw, msg.Pitch, msg.Power)
		if err != nil {
			return err
		}
		c.SendJSON(Envelope{T: MsgFired, Data: FiredMsg{Seeker: sid}})

	case MsgBlock:
		var msg BlockMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return errors.New("bad request")
		}
		err := a.AddBlock(mgl64.Vec3{msg.X1, msg.Y1, msg.Z1}, mgl64.Vec3{msg.X2, msg.Y2, msg.Z2})
		if err != nil {
			return err
		}
		c.SendJSON(Envelope{T: MsgOK, Data: msg})

	case MsgTame:
		var msg TameMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return errors.New("bad request")
		}
		if err := a.Tame(EntityID(msg.Animal), EntityID(msg.Owner)); err != nil {
			return err
		}
		c.SendJSON(Envelope{T: MsgOK, Data: msg})
	}
	return nil
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts are disabled")
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.setOperator(id, strings.TrimSpace(msg.Username), token)
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts are disabled")
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.setOperator(id, msg.Username, token)
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts are disabled")
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.sendError("invalid token")
		return
	}
	c.setOperator(id, username, msg.Token)
}

func (c *Client) setOperator(id int64, username, token string) {
	c.operatorID = id
	c.operatorName = username
	log.Info("operator authenticated", "op", username, "addr", c.remoteAddr)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:      token,
		Username:   username,
		OperatorID: id,
	}})
}
