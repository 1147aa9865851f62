package arena

import (
	"fmt"

	"github.com/google/uuid"

	"spellbolt/server/internal/combat"
	"spellbolt/server/internal/projectile"
	"spellbolt/server/internal/world"
)

// liveProjectile pairs a projectile's flight state with its world actor so
// the registry stays in sync as it moves.
type liveProjectile struct {
	state *projectile.State
	actor *world.Actor
}

// spawnProjectile creates the projectile actor and flight state for an
// accepted dispatch. Failures are reported back to the fire controller,
// which surfaces them as a spawn-failed rejection.
func (a *Arena) spawnProjectile(owner *Agent, req combat.SpawnRequest) (string, error) {
	id := "proj-" + uuid.NewString()

	team, hasTeam := a.world.TeamOf(owner.ID)

	actor := &world.Actor{
		ID:         id,
		Kind:       world.KindProjectile,
		Position:   req.Position,
		Facing:     req.Direction,
		Team:       team,
		Radius:     req.Kind.CollisionRadius,
		Controller: owner.ControllerID,
		SurfaceTag: "energy",
	}
	if !a.world.AddActor(actor) {
		return "", fmt.Errorf("arena: world rejected projectile %q", id)
	}

	state, err := projectile.Spawn(projectile.SpawnConfig{
		ID:              id,
		KindID:          req.Kind.ID,
		Element:         req.Kind.Element,
		Position:        req.Position,
		Direction:       req.Direction,
		Speed:           req.Kind.Speed,
		Damage:          req.Kind.Damage,
		LifetimeSeconds: req.Kind.LifetimeSeconds,
		Radius:          req.Kind.CollisionRadius,
		OwnerID:         owner.ID,
		InstigatorID:    owner.ControllerID,
		Team:            team,
		HasTeam:         hasTeam,
		TrailEffect:     req.Kind.TrailEffect,
		ImpactEffect:    req.Kind.ImpactEffect,
		Scheduler:       a.world.Scheduler(),
		Hooks: projectile.Hooks{
			TeamOf:           a.world.TeamOf,
			ApplyDamage:      a.applyDamage,
			PlayImpactEffect: a.deps.Effects.PlayImpactEffect,
			PlayTrailEffect:  a.deps.Effects.PlayTrailEffect,
			Publisher:        a.bus,
			Remove:           a.removeProjectile,
		},
	})
	if err != nil {
		a.world.RemoveActor(id)
		return "", err
	}

	a.projectiles[id] = &liveProjectile{state: state, actor: actor}
	a.projOrder = append(a.projOrder, id)
	return id, nil
}

// removeProjectile drops a terminated projectile from the world and the
// arena's registry. Called from the projectile's own termination path.
func (a *Arena) removeProjectile(id string) {
	a.world.RemoveActor(id)
	if _, ok := a.projectiles[id]; !ok {
		return
	}
	delete(a.projectiles, id)
	for i, existing := range a.projOrder {
		if existing == id {
			a.projOrder = append(a.projOrder[:i], a.projOrder[i+1:]...)
			break
		}
	}
}

// tickProjectiles advances every live projectile one step. The order
// snapshot keeps iteration stable while terminations mutate the registry.
func (a *Arena) tickProjectiles(delta float64) {
	for _, id := range append([]string(nil), a.projOrder...) {
		live, ok := a.projectiles[id]
		if !ok || !live.state.Alive() {
			continue
		}
		live.state.Advance(projectile.AdvanceConfig{
			Delta:           delta,
			VisitCandidates: a.visitCandidates(id),
		})
		live.actor.Position = live.state.Position
	}
}

// visitCandidates exposes every other registered actor as an overlap
// candidate; identity and team exemptions live in the projectile itself.
func (a *Arena) visitCandidates(projectileID string) func(visit func(projectile.Candidate) bool) {
	return func(visit func(projectile.Candidate) bool) {
		a.world.VisitActors(func(actor *world.Actor) bool {
			if actor.ID == projectileID {
				return true
			}
			return visit(projectile.Candidate{
				ID:       actor.ID,
				Position: actor.Position,
				Radius:   actor.Radius,
			})
		})
	}
}
