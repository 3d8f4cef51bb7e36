package scene

import (
	"encoding/json"
	"sort"

	"github.com/scenesync/scenesync/internal/core/messages"
)

// VisualEntity is a renderable object tracked by the registry. Children are
// held as an identifier set, never as owning references, so removing an
// entity can never dangle a pointer.
type VisualEntity struct {
	id       string
	parentID string
	children map[string]struct{}
	pose     messages.Pose
	attrs    map[string]json.RawMessage
	visible  bool
}

func newVisualEntity(id, parentID string) *VisualEntity {
	return &VisualEntity{
		id:       id,
		parentID: parentID,
		children: make(map[string]struct{}),
		attrs:    make(map[string]json.RawMessage),
		visible:  true,
	}
}

func (e *VisualEntity) ID() string          { return e.id }
func (e *VisualEntity) ParentID() string    { return e.parentID }
func (e *VisualEntity) Pose() messages.Pose { return e.pose }
func (e *VisualEntity) Visible() bool       { return e.visible }

// Attr returns one opaque renderable attribute.
func (e *VisualEntity) Attr(key string) (json.RawMessage, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// Children returns the child identifiers in sorted order.
func (e *VisualEntity) Children() []string {
	ids := make([]string, 0, len(e.children))
	for id := range e.children {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (e *VisualEntity) hasChild(id string) bool {
	_, ok := e.children[id]
	return ok
}

// merge folds an update message into the entity. Pose is deliberately left
// untouched: poses arrive on their own topic.
func (e *VisualEntity) merge(msg messages.Visual) {
	for key, value := range msg.Attrs {
		e.attrs[key] = value
	}
	if msg.Visible != nil {
		e.visible = *msg.Visible
	}
}

// LightEntity is a light source tracked by the registry in its own
// namespace. Its parameters are opaque to the replica.
type LightEntity struct {
	id     string
	params map[string]json.RawMessage
}

func newLightEntity(id string) *LightEntity {
	return &LightEntity{
		id:     id,
		params: make(map[string]json.RawMessage),
	}
}

func (e *LightEntity) ID() string { return e.id }

// Param returns one opaque light parameter.
func (e *LightEntity) Param(key string) (json.RawMessage, bool) {
	v, ok := e.params[key]
	return v, ok
}

func (e *LightEntity) merge(msg messages.Light) {
	for key, value := range msg.Params {
		e.params[key] = value
	}
}
