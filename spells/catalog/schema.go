package catalog

// KindDocument represents a single designer-authored projectile kind as it
// appears on disk. The struct is exported so tooling (e.g. the schema
// generator) can reflect over the configuration contract shared with
// designers.
type KindDocument struct {
	ID              string  `json:"id" jsonschema:"title=Spell Kind ID,description=Designer-facing identifier the fire controller resolves by name.,pattern=^[a-z0-9-]+$,minLength=1,required"`
	Element         string  `json:"element,omitempty" jsonschema:"title=Element,description=Spell element used for visuals and logging."`
	Speed           float64 `json:"speed,omitempty" jsonschema:"title=Travel Speed,description=Constant travel speed in world units per second.,minimum=0"`
	Damage          float64 `json:"damage,omitempty" jsonschema:"title=Damage,description=Damage applied on the resolving hit.,minimum=0"`
	LifetimeSeconds float64 `json:"lifetimeSeconds,omitempty" jsonschema:"title=Lifetime,description=Seconds before the projectile expires without a hit.,minimum=0"`
	CollisionRadius float64 `json:"collisionRadius,omitempty" jsonschema:"title=Collision Radius,description=Overlap sphere radius in world units.,minimum=0"`
	TrailEffect     string  `json:"trailEffect,omitempty" jsonschema:"title=Trail Effect,description=Name of the client trail visual."`
	ImpactEffect    string  `json:"impactEffect,omitempty" jsonschema:"title=Impact Effect,description=Name of the client impact visual."`
}

// FileDefinitions represents the contents of a spell definitions file. The
// loader accepts the canonical array format authored by designers.
type FileDefinitions []KindDocument
