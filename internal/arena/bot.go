package arena

// duelBot is the minimal opponent brain: keep facing the target, refresh
// aim, and fire whenever the reticle rests on it and the cooldown allows.
type duelBot struct {
	targetID string
}

func (b *duelBot) act(a *Arena, agent *Agent) {
	if b.targetID == "" {
		return
	}
	target, ok := a.world.Actor(b.targetID)
	if !ok {
		return
	}

	agent.SetFacing(target.Position.Sub(agent.Position()))
	agent.Aim.RequestUpdate()

	if agent.Aim.IsAimingAt(b.targetID) && agent.Fire.CanFire() {
		agent.Fire.Fire()
	}
}
