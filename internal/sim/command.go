// Package sim runs the fixed-timestep simulation loop and the command queue
// feeding it. Transport goroutines stage commands; the loop drains and
// applies them at the top of each tick, so the arena itself stays
// single-threaded.
package sim

import "time"

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	// CommandFire requests a projectile launch, optionally naming a kind.
	CommandFire CommandType = "Fire"
	// CommandFace updates the wizard's facing direction.
	CommandFace CommandType = "Face"
	// CommandAim forces an immediate aim resolution.
	CommandAim CommandType = "Aim"
)

// FireCommand names the projectile kind to launch; empty means the wizard's
// default.
type FireCommand struct {
	KindID string `json:"kindId,omitempty"`
}

// FaceCommand carries the desired facing vector.
type FaceCommand struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick uint64       `json:"originTick"`
	ActorID    string       `json:"actorId"`
	Type       CommandType  `json:"type"`
	IssuedAt   time.Time    `json:"issuedAt"`
	Fire       *FireCommand `json:"fire,omitempty"`
	Face       *FaceCommand `json:"face,omitempty"`
}
