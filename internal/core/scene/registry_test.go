package scene

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scenesync/scenesync/internal/core/messages"
)

func visualMsg(id, parentID string, attrs map[string]string) messages.Visual {
	msg := messages.Visual{ID: id, ParentID: parentID}
	if len(attrs) > 0 {
		msg.Attrs = make(map[string]json.RawMessage, len(attrs))
		for k, v := range attrs {
			raw, _ := json.Marshal(v)
			msg.Attrs[k] = raw
		}
	}
	return msg
}

func TestRegistryVisuals(t *testing.T) {
	t.Run("upsert creates then merges", func(t *testing.T) {
		r := NewRegistry()

		created := r.UpsertVisual(visualMsg("v1", "", map[string]string{"mesh": "box"}))
		require.True(t, created)
		require.Equal(t, 1, r.VisualCount())

		created = r.UpsertVisual(visualMsg("v1", "", map[string]string{"material": "steel"}))
		require.False(t, created)
		require.Equal(t, 1, r.VisualCount())

		e, ok := r.Visual("v1")
		require.True(t, ok)
		mesh, ok := e.Attr("mesh")
		require.True(t, ok)
		require.JSONEq(t, `"box"`, string(mesh))
		material, ok := e.Attr("material")
		require.True(t, ok)
		require.JSONEq(t, `"steel"`, string(material))
	})

	t.Run("merge leaves pose untouched", func(t *testing.T) {
		r := NewRegistry()
		r.UpsertVisual(visualMsg("v1", "", nil))

		pose := messages.Pose{Position: messages.Vector3{X: 1, Y: 2, Z: 3}}
		require.True(t, r.SetPose("v1", pose))

		r.UpsertVisual(visualMsg("v1", "", map[string]string{"mesh": "sphere"}))

		e, _ := r.Visual("v1")
		require.Equal(t, pose, e.Pose())
	})

	t.Run("known parent attaches child", func(t *testing.T) {
		r := NewRegistry()
		r.UpsertVisual(visualMsg("parent", "", nil))
		r.UpsertVisual(visualMsg("child", "parent", nil))

		parent, _ := r.Visual("parent")
		require.Equal(t, []string{"child"}, parent.Children())

		roots := r.Roots()
		require.Len(t, roots, 1)
		require.Equal(t, "parent", roots[0].ID())
	})

	t.Run("unknown parent falls back to scene root", func(t *testing.T) {
		r := NewRegistry()
		r.UpsertVisual(visualMsg("orphan", "ghost", nil))

		roots := r.Roots()
		require.Len(t, roots, 1)
		require.Equal(t, "orphan", roots[0].ID())
	})

	t.Run("remove detaches from parent and is idempotent", func(t *testing.T) {
		r := NewRegistry()
		r.UpsertVisual(visualMsg("parent", "", nil))
		r.UpsertVisual(visualMsg("child", "parent", nil))

		require.True(t, r.RemoveVisual("child"))
		require.False(t, r.RemoveVisual("child"))
		require.False(t, r.RemoveVisual("never-existed"))

		parent, _ := r.Visual("parent")
		require.Empty(t, parent.Children())
	})

	t.Run("remove does not cascade to children", func(t *testing.T) {
		// Known gap carried over from the source system: children of a
		// removed parent stay registered and surface as roots.
		r := NewRegistry()
		r.UpsertVisual(visualMsg("parent", "", nil))
		r.UpsertVisual(visualMsg("child", "parent", nil))

		require.True(t, r.RemoveVisual("parent"))

		child, ok := r.Visual("child")
		require.True(t, ok)
		require.Equal(t, "parent", child.ParentID())

		roots := r.Roots()
		require.Len(t, roots, 1)
		require.Equal(t, "child", roots[0].ID())
	})

	t.Run("visibility flag merges", func(t *testing.T) {
		r := NewRegistry()
		r.UpsertVisual(visualMsg("v1", "", nil))

		e, _ := r.Visual("v1")
		require.True(t, e.Visible())

		hidden := false
		r.UpsertVisual(messages.Visual{ID: "v1", Visible: &hidden})
		require.False(t, e.Visible())
	})
}

func TestRegistryLights(t *testing.T) {
	t.Run("upsert creates then merges", func(t *testing.T) {
		r := NewRegistry()

		created := r.UpsertLight(messages.Light{ID: "sun", Params: map[string]json.RawMessage{
			"type": json.RawMessage(`"directional"`),
		}})
		require.True(t, created)

		created = r.UpsertLight(messages.Light{ID: "sun", Params: map[string]json.RawMessage{
			"color": json.RawMessage(`"white"`),
		}})
		require.False(t, created)
		require.Equal(t, 1, r.LightCount())

		e, ok := r.Light("sun")
		require.True(t, ok)
		typ, ok := e.Param("type")
		require.True(t, ok)
		require.JSONEq(t, `"directional"`, string(typ))
		color, ok := e.Param("color")
		require.True(t, ok)
		require.JSONEq(t, `"white"`, string(color))
	})

	t.Run("light and visual namespaces are independent", func(t *testing.T) {
		r := NewRegistry()
		r.UpsertVisual(visualMsg("shared", "", nil))
		r.UpsertLight(messages.Light{ID: "shared"})

		_, ok := r.Visual("shared")
		require.True(t, ok)
		_, ok = r.Light("shared")
		require.True(t, ok)

		r.RemoveVisual("shared")
		_, ok = r.Light("shared")
		require.True(t, ok)
	})
}

func TestRegistryPoses(t *testing.T) {
	t.Run("set pose on unknown target reports false", func(t *testing.T) {
		r := NewRegistry()
		require.False(t, r.SetPose("ghost", messages.Pose{}))
	})

	t.Run("clear releases everything", func(t *testing.T) {
		r := NewRegistry()
		r.UpsertVisual(visualMsg("v1", "", nil))
		r.UpsertLight(messages.Light{ID: "sun"})

		r.Clear()
		require.Equal(t, 0, r.VisualCount())
		require.Equal(t, 0, r.LightCount())
	})
}
