package arena

import "github.com/go-gl/mathgl/mgl64"

// EffectSink receives fire-and-forget cosmetic playback requests. The
// simulation never waits on effect completion.
type EffectSink interface {
	PlayImpactEffect(name string, location, normal mgl64.Vec3)
	PlayTrailEffect(name, projectileID string)
}

type nopEffects struct{}

func (nopEffects) PlayImpactEffect(string, mgl64.Vec3, mgl64.Vec3) {}
func (nopEffects) PlayTrailEffect(string, string)                  {}

// NopEffects discards every playback request.
func NopEffects() EffectSink {
	return nopEffects{}
}
