package world

import "github.com/go-gl/mathgl/mgl64"

// World owns the actor registry, static obstacles, and the simulation clock.
// It is the single source of truth the aim resolver and projectiles query;
// all access happens on the simulation goroutine.
type World struct {
	clock     Clock
	scheduler *Scheduler
	actors    map[string]*Actor
	order     []string
	obstacles []Obstacle
}

// New constructs an empty world with a zeroed clock.
func New() *World {
	w := &World{
		actors: make(map[string]*Actor),
	}
	w.scheduler = NewScheduler(&w.clock)
	return w
}

// Clock exposes the simulation clock.
func (w *World) Clock() *Clock {
	if w == nil {
		return nil
	}
	return &w.clock
}

// Scheduler exposes the timer scheduler bound to the world clock.
func (w *World) Scheduler() *Scheduler {
	if w == nil {
		return nil
	}
	return w.scheduler
}

// Advance moves simulation time forward and fires any due timers.
func (w *World) Advance(delta float64) {
	w.AdvanceClock(delta)
	w.FireTimers()
}

// AdvanceClock moves simulation time forward without firing timers. Callers
// that interleave work between the clock step and timer delivery, such as
// projectile movement that must beat a lifetime deadline, pair it with
// FireTimers.
func (w *World) AdvanceClock(delta float64) {
	if w == nil {
		return
	}
	w.clock.Advance(delta)
}

// FireTimers runs every timer due at the current clock reading.
func (w *World) FireTimers() {
	if w == nil {
		return
	}
	w.scheduler.Advance()
}

// AddActor registers an actor, normalizing degenerate radii to zero. Actors
// with empty or duplicate IDs are rejected.
func (w *World) AddActor(actor *Actor) bool {
	if w == nil || actor == nil || actor.ID == "" {
		return false
	}
	if _, exists := w.actors[actor.ID]; exists {
		return false
	}
	if actor.Radius < 0 {
		actor.Radius = 0
	}
	if actor.Team < TeamNone {
		actor.Team = TeamNone
	}
	if actor.Facing == (mgl64.Vec3{}) {
		actor.Facing = mgl64.Vec3{1, 0, 0}
	}
	w.actors[actor.ID] = actor
	w.order = append(w.order, actor.ID)
	return true
}

// RemoveActor drops the actor from the registry. Removal is idempotent.
func (w *World) RemoveActor(id string) {
	if w == nil || id == "" {
		return
	}
	if _, exists := w.actors[id]; !exists {
		return
	}
	delete(w.actors, id)
	for i, existing := range w.order {
		if existing == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Actor looks up a registered actor by ID.
func (w *World) Actor(id string) (*Actor, bool) {
	if w == nil || id == "" {
		return nil, false
	}
	actor, ok := w.actors[id]
	return actor, ok
}

// VisitActors walks registered actors in insertion order. Returning false
// from the visitor stops the walk early.
func (w *World) VisitActors(visitor func(*Actor) bool) {
	if w == nil || visitor == nil {
		return
	}
	for _, id := range w.order {
		actor := w.actors[id]
		if actor == nil {
			continue
		}
		if !visitor(actor) {
			return
		}
	}
}

// AttachedIDs returns the IDs of actors rigidly attached to the named actor.
func (w *World) AttachedIDs(id string) []string {
	if w == nil || id == "" {
		return nil
	}
	var attached []string
	for _, candidateID := range w.order {
		actor := w.actors[candidateID]
		if actor != nil && actor.AttachedTo == id {
			attached = append(attached, actor.ID)
		}
	}
	return attached
}

// TeamOf is the team/faction query capability. The boolean reports whether
// the actor exists and exposes a team identity; absence means "no team".
func (w *World) TeamOf(id string) (TeamID, bool) {
	actor, ok := w.Actor(id)
	if !ok || !actor.HasTeam() {
		return TeamNone, false
	}
	return actor.Team, true
}

// AddObstacle registers a static obstacle, normalizing inverted extents.
func (w *World) AddObstacle(obstacle Obstacle) {
	if w == nil {
		return
	}
	w.obstacles = append(w.obstacles, obstacle.Normalize())
}

// Obstacles returns the registered obstacles. The slice is shared; callers
// must not mutate it.
func (w *World) Obstacles() []Obstacle {
	if w == nil {
		return nil
	}
	return w.obstacles
}
