package messages

import "encoding/json"

// Topic names shared between the remote authority and a scene replica.
const (
	TopicScene     = "scene"
	TopicVisual    = "visual"
	TopicLight     = "light"
	TopicPose      = "pose"
	TopicSelection = "selection"
	TopicRequest   = "request"
)

// ActionDelete marks a visual message as a removal instead of an upsert.
const ActionDelete = "delete"

// Vector3 is a position in scene coordinates.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is an orientation.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose combines position and orientation.
type Pose struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Visual describes a renderable object. Attrs is an opaque bag of renderable
// properties (mesh, material, ...) that the replica merges but never
// interprets.
type Visual struct {
	ID       string                     `json:"id"`
	ParentID string                     `json:"parent_id,omitempty"`
	Action   string                     `json:"action,omitempty"`
	Attrs    map[string]json.RawMessage `json:"attrs,omitempty"`
	Visible  *bool                      `json:"visible,omitempty"`
}

// IsDelete reports whether the message removes the visual instead of
// upserting it.
func (v Visual) IsDelete() bool {
	return v.Action == ActionDelete
}

func (v Visual) Validate() error {
	if v.ID == "" {
		return ErrMissingID
	}
	return nil
}

// Light describes a light source. Params is opaque to the replica.
type Light struct {
	ID     string                     `json:"id"`
	Params map[string]json.RawMessage `json:"params,omitempty"`
}

func (l Light) Validate() error {
	if l.ID == "" {
		return ErrMissingID
	}
	return nil
}

// PoseUpdate carries the latest pose for one entity.
type PoseUpdate struct {
	ID   string `json:"id"`
	Pose Pose   `json:"pose"`
}

func (p PoseUpdate) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	return nil
}

// Selection names the current interaction target. An empty ID selects
// nothing.
type Selection struct {
	ID string `json:"id,omitempty"`
}

// SceneState is the aggregate snapshot the authority publishes for newly
// joined replicas: batches for every entity topic plus scene-level
// properties.
type SceneState struct {
	Visuals    []Visual     `json:"visuals,omitempty"`
	Lights     []Light      `json:"lights,omitempty"`
	Poses      []PoseUpdate `json:"poses,omitempty"`
	Ambient    *Color       `json:"ambient,omitempty"`
	Background *Color       `json:"background,omitempty"`
}

// Request asks the authority for an action, e.g. republishing full state.
type Request struct {
	Action string `json:"action"`
}

// RequestPublish asks the authority to re-send the complete scene state.
const RequestPublish = "publish"
