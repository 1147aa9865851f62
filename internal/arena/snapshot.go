package arena

import "github.com/go-gl/mathgl/mgl64"

// AgentSnapshot is the wire shape for one wizard's public state.
type AgentSnapshot struct {
	ID         string     `json:"id"`
	Position   mgl64.Vec3 `json:"position"`
	Facing     mgl64.Vec3 `json:"facing"`
	Team       int        `json:"team,omitempty"`
	Health     float64    `json:"health"`
	MaxHealth  float64    `json:"maxHealth"`
	Defeated   bool       `json:"defeated,omitempty"`
	OnCooldown bool       `json:"onCooldown,omitempty"`
}

// ProjectileSnapshot is the wire shape for one in-flight projectile.
type ProjectileSnapshot struct {
	ID        string     `json:"id"`
	KindID    string     `json:"kindId"`
	OwnerID   string     `json:"ownerId"`
	Position  mgl64.Vec3 `json:"position"`
	Direction mgl64.Vec3 `json:"direction"`
}

// StateSnapshot is the full broadcast state for transport consumers.
type StateSnapshot struct {
	Tick        uint64               `json:"tick"`
	Time        float64              `json:"time"`
	Agents      []AgentSnapshot      `json:"agents"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
}

// Snapshot captures the broadcastable match state in registration order.
func (a *Arena) Snapshot() StateSnapshot {
	snap := StateSnapshot{
		Tick: a.world.Clock().Tick(),
		Time: a.world.Clock().Seconds(),
	}
	for _, id := range a.agentOrder {
		agent, ok := a.agents[id]
		if !ok {
			continue
		}
		snap.Agents = append(snap.Agents, AgentSnapshot{
			ID:         agent.ID,
			Position:   agent.actor.Position,
			Facing:     agent.actor.ForwardVector(),
			Team:       int(agent.actor.Team),
			Health:     agent.Health.Health,
			MaxHealth:  agent.Health.MaxHealth,
			Defeated:   agent.Defeated,
			OnCooldown: !agent.Fire.CanFire() && agent.Fire.CooldownRemaining() > 0,
		})
	}
	for _, id := range a.projOrder {
		live, ok := a.projectiles[id]
		if !ok {
			continue
		}
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			ID:        live.state.ID,
			KindID:    live.state.KindID,
			OwnerID:   live.state.OwnerID,
			Position:  live.state.Position,
			Direction: live.state.Direction,
		})
	}
	return snap
}
