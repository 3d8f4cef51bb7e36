package scene

import "github.com/scenesync/scenesync/internal/core/messages"

// PoseStaging holds pose updates whose target entity has not arrived yet.
// At most one pose is kept per identifier: a newer pose supersedes the
// staged one. Entries are retried every cycle until the target appears or
// the scene is torn down; there is no expiry.
type PoseStaging struct {
	pending map[string]messages.Pose
}

// NewPoseStaging creates an empty staging area.
func NewPoseStaging() *PoseStaging {
	return &PoseStaging{pending: make(map[string]messages.Pose)}
}

// Stage records the latest pose for an unresolved identifier,
// last-writer-wins.
func (p *PoseStaging) Stage(id string, pose messages.Pose) {
	p.pending[id] = pose
}

// Resolve applies every staged pose whose target now exists in the registry
// and removes it from staging. Returns the number of poses applied.
func (p *PoseStaging) Resolve(reg *Registry) int {
	applied := 0
	for id, pose := range p.pending {
		if reg.SetPose(id, pose) {
			delete(p.pending, id)
			applied++
		}
	}
	return applied
}

// Len returns the number of staged poses.
func (p *PoseStaging) Len() int { return len(p.pending) }

// Clear discards everything staged.
func (p *PoseStaging) Clear() {
	p.pending = make(map[string]messages.Pose)
}
