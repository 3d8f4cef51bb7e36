package messages

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	t.Run("encode then decode preserves topic and payload", func(t *testing.T) {
		data, err := EncodeEnvelope(TopicVisual, Visual{ID: "v1", ParentID: "root"})
		require.NoError(t, err)

		env, err := DecodeEnvelope(data)
		require.NoError(t, err)
		require.Equal(t, TopicVisual, env.Topic)

		msg, err := DecodeVisual(env.Payload)
		require.NoError(t, err)
		require.Equal(t, "v1", msg.ID)
		require.Equal(t, "root", msg.ParentID)
	})

	t.Run("decode rejects junk, missing topic and empty payload", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte("not json"))
		require.Error(t, err)

		_, err = DecodeEnvelope([]byte(`{"payload": {"id": "x"}}`))
		require.ErrorIs(t, err, ErrMissingTopic)

		_, err = DecodeEnvelope([]byte(`{"topic": "visual"}`))
		require.ErrorIs(t, err, ErrEmptyPayload)
	})
}

func TestDecodeMessages(t *testing.T) {
	t.Run("identifier is required on entity topics", func(t *testing.T) {
		_, err := DecodeVisual([]byte(`{"parent_id": "p"}`))
		require.ErrorIs(t, err, ErrMissingID)

		_, err = DecodeLight([]byte(`{}`))
		require.ErrorIs(t, err, ErrMissingID)

		_, err = DecodePose([]byte(`{"pose": {}}`))
		require.ErrorIs(t, err, ErrMissingID)
	})

	t.Run("selection allows an empty identifier", func(t *testing.T) {
		sel, err := DecodeSelection([]byte(`{}`))
		require.NoError(t, err)
		require.Empty(t, sel.ID)
	})

	t.Run("type mismatches fail decoding", func(t *testing.T) {
		_, err := DecodeVisual([]byte(`{"id": 42}`))
		require.Error(t, err)

		_, err = DecodePose([]byte(`{"id": "v1", "pose": "sideways"}`))
		require.Error(t, err)
	})

	t.Run("delete action is recognized", func(t *testing.T) {
		msg, err := DecodeVisual([]byte(`{"id": "v1", "action": "delete"}`))
		require.NoError(t, err)
		require.True(t, msg.IsDelete())

		msg, err = DecodeVisual([]byte(`{"id": "v1"}`))
		require.NoError(t, err)
		require.False(t, msg.IsDelete())
	})

	t.Run("scene snapshot decodes nested batches", func(t *testing.T) {
		data := []byte(`{
			"visuals": [{"id": "v1"}],
			"lights": [{"id": "sun"}],
			"poses": [{"id": "v1", "pose": {"position": {"x": 1, "y": 2, "z": 3}}}],
			"ambient": {"r": 1, "g": 1, "b": 1, "a": 1}
		}`)
		msg, err := DecodeSceneState(data)
		require.NoError(t, err)
		require.Len(t, msg.Visuals, 1)
		require.Len(t, msg.Lights, 1)
		require.Len(t, msg.Poses, 1)
		require.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, msg.Poses[0].Pose.Position)
		require.NotNil(t, msg.Ambient)
		require.Nil(t, msg.Background)
	})
}
