package main

import "encoding/json"

// Client -> Server message types
const (
	MsgCreate    = "create"    // create arena
	MsgList      = "list"      // list arenas
	MsgCheck     = "check"     // check if arena exists
	MsgWatch     = "watch"     // spectate an arena
	MsgLeave     = "leave"     // stop spectating
	MsgSpawn     = "spawn"     // operator: spawn an entity
	MsgDespawn   = "despawn"   // operator: remove an entity
	MsgFire      = "fire"      // operator: fire a seeker
	MsgBlock     = "block"     // operator: add terrain
	MsgTame      = "tame"      // operator: tame an animal to an entity
	MsgProtect   = "protect"   // operator: protect a name from targeting
	MsgUnprotect = "unprotect" // operator: lift protection
	MsgRegister  = "register"
	MsgLogin     = "login"
	MsgAuth      = "auth"
)

// Server -> Client message types
const (
	MsgState     = "state"
	MsgArenas    = "arenas"
	MsgCreated   = "created" // arena created, client may watch it
	MsgWatching  = "watching"
	MsgChecked   = "checked"
	MsgSpawned   = "spawned"
	MsgFired     = "fired"
	MsgTarget    = "target" // a seeker's target changed
	MsgHit       = "hit"
	MsgOK        = "ok"
	MsgAuthOK    = "auth_ok"
	MsgError     = "error"
	MsgProtected = "protected" // current protected name list
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// CreateMsg is sent to create an arena
type CreateMsg struct {
	Name string `json:"name"`
}

// ArenaRef names an arena for watch/check
type ArenaRef struct {
	ArenaID string `json:"aid"`
}

// SpawnMsg places an entity in the watched arena
type SpawnMsg struct {
	Species string  `json:"species"`
	Name    string  `json:"name,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// EntityRef names an entity in the watched arena
type EntityRef struct {
	ID int32 `json:"id"`
}

// FireMsg launches a seeker from a shooter entity. Angles are radians.
type FireMsg struct {
	Shooter int32   `json:"shooter"`
	Yaw     float64 `json:"yaw"`
	Pitch   float64 `json:"pitch"`
	Power   float64 `json:"power"`
}

// BlockMsg adds a terrain box between two corners
type BlockMsg struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	Z1 float64 `json:"z1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
	Z2 float64 `json:"z2"`
}

// TameMsg binds an animal to an owner
type TameMsg struct {
	Animal int32 `json:"animal"`
	Owner  int32 `json:"owner"`
}

// NameMsg carries an entity name for protect/unprotect
type NameMsg struct {
	Name string `json:"name"`
}

// RegisterMsg creates an operator account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates an operator
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg resumes an operator session from a token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms operator authentication
type AuthOKMsg struct {
	Token      string `json:"token"`
	Username   string `json:"username"`
	OperatorID int64  `json:"oid"`
}

// EntityState is broadcast per entity
type EntityState struct {
	ID      int32   `json:"id" msgpack:"id"`
	Name    string  `json:"n" msgpack:"n"`
	Species string  `json:"sp" msgpack:"sp"`
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
	Z       float64 `json:"z" msgpack:"z"`
	HP      int     `json:"hp" msgpack:"hp"`
	Target  int32   `json:"tg" msgpack:"tg"`
	TamedBy int32   `json:"tb" msgpack:"tb"`
}

// SeekerState is broadcast per seeker
type SeekerState struct {
	ID     string  `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Z      float64 `json:"z" msgpack:"z"`
	VX     float64 `json:"vx" msgpack:"vx"`
	VY     float64 `json:"vy" msgpack:"vy"`
	VZ     float64 `json:"vz" msgpack:"vz"`
	Owner  int32   `json:"o" msgpack:"o"`
	Target int32   `json:"tg" msgpack:"tg"`
	Ground bool    `json:"g,omitempty" msgpack:"g,omitempty"`
}

// MarkerState is one trail marker
type MarkerState struct {
	X  float64 `json:"x" msgpack:"x"`
	Y  float64 `json:"y" msgpack:"y"`
	Z  float64 `json:"z" msgpack:"z"`
	VX float64 `json:"vx" msgpack:"vx"`
	VY float64 `json:"vy" msgpack:"vy"`
	VZ float64 `json:"vz" msgpack:"vz"`
}

// ArenaState is the full state broadcast
type ArenaState struct {
	Entities []EntityState `json:"e" msgpack:"e"`
	Seekers  []SeekerState `json:"s" msgpack:"s"`
	Markers  []MarkerState `json:"m" msgpack:"m"`
	Tick     uint64        `json:"tick" msgpack:"tick"`
}

// TargetMsg is broadcast when a seeker's target changes
type TargetMsg struct {
	Seeker string `json:"sid"`
	Old    int32  `json:"old"`
	New    int32  `json:"new"`
	Reason string `json:"why"`
}

// HitMsg is broadcast when a seeker strikes an entity
type HitMsg struct {
	Seeker string  `json:"sid"`
	Owner  int32   `json:"o"`
	Victim int32   `json:"v"`
	Name   string  `json:"n"`
	Damage float64 `json:"d"`
}

// SpawnedMsg answers a spawn command
type SpawnedMsg struct {
	ID int32 `json:"id"`
}

// FiredMsg answers a fire command
type FiredMsg struct {
	Seeker string `json:"sid"`
}

// ArenaInfo is used in the arena list
type ArenaInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Entities   int    `json:"entities"`
	Seekers    int    `json:"seekers"`
	Spectators int    `json:"spectators"`
}

// CheckedMsg is the response to an arena check
type CheckedMsg struct {
	ArenaID string `json:"aid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
}

// ProtectedMsg lists protected names
type ProtectedMsg struct {
	Names []string `json:"names"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
