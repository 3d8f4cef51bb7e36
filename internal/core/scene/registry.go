package scene

import (
	"sort"

	"github.com/scenesync/scenesync/internal/core/messages"
)

// Registry owns every live entity, keyed by identifier. Visuals and lights
// live in separate namespaces: the same identifier may name a visual and a
// light. The registry is mutated only by the reconciliation consumer; the
// scene's read/apply lock makes lookups safe between cycles.
type Registry struct {
	visuals map[string]*VisualEntity
	lights  map[string]*LightEntity
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		visuals: make(map[string]*VisualEntity),
		lights:  make(map[string]*LightEntity),
	}
}

// UpsertVisual creates the visual named by msg or merges the message into an
// existing one. On creation, the parent identifier is attached only if it
// resolves to a known visual; otherwise the entity hangs off the implicit
// scene root. Reports whether this was a creation, for diagnostics.
func (r *Registry) UpsertVisual(msg messages.Visual) bool {
	if existing, ok := r.visuals[msg.ID]; ok {
		existing.merge(msg)
		return false
	}

	entity := newVisualEntity(msg.ID, msg.ParentID)
	entity.merge(msg)
	if parent, ok := r.visuals[msg.ParentID]; msg.ParentID != "" && ok {
		parent.children[msg.ID] = struct{}{}
	}
	r.visuals[msg.ID] = entity
	return true
}

// RemoveVisual deletes a visual and detaches it from its parent's child set.
// Children are not cascaded: they keep their dangling parent identifier and
// surface as roots. Removing an unknown identifier is a no-op.
func (r *Registry) RemoveVisual(id string) bool {
	entity, ok := r.visuals[id]
	if !ok {
		return false
	}

	if parent, ok := r.visuals[entity.parentID]; ok {
		delete(parent.children, id)
	}
	delete(r.visuals, id)
	return true
}

// UpsertLight creates or merges a light. There is no delete path for
// lights; they live until the scene is torn down.
func (r *Registry) UpsertLight(msg messages.Light) bool {
	if existing, ok := r.lights[msg.ID]; ok {
		existing.merge(msg)
		return false
	}

	entity := newLightEntity(msg.ID)
	entity.merge(msg)
	r.lights[msg.ID] = entity
	return true
}

// SetPose applies a pose to a known visual. It reports false when the
// target does not exist so the caller can stage the pose instead.
func (r *Registry) SetPose(id string, pose messages.Pose) bool {
	entity, ok := r.visuals[id]
	if !ok {
		return false
	}
	entity.pose = pose
	return true
}

// Visual looks up a visual by identifier.
func (r *Registry) Visual(id string) (*VisualEntity, bool) {
	e, ok := r.visuals[id]
	return e, ok
}

// Light looks up a light by identifier.
func (r *Registry) Light(id string) (*LightEntity, bool) {
	e, ok := r.lights[id]
	return e, ok
}

// Roots returns, sorted by identifier, every visual whose parent is absent:
// either never set or no longer registered.
func (r *Registry) Roots() []*VisualEntity {
	roots := make([]*VisualEntity, 0, len(r.visuals))
	for _, e := range r.visuals {
		if _, ok := r.visuals[e.parentID]; e.parentID == "" || !ok {
			roots = append(roots, e)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].id < roots[j].id })
	return roots
}

// VisualCount returns the number of registered visuals.
func (r *Registry) VisualCount() int { return len(r.visuals) }

// LightCount returns the number of registered lights.
func (r *Registry) LightCount() int { return len(r.lights) }

// Clear releases every entity.
func (r *Registry) Clear() {
	r.visuals = make(map[string]*VisualEntity)
	r.lights = make(map[string]*LightEntity)
}
