package messages

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire frame used by the bundled transports: a topic name
// plus the raw payload for that topic's message type.
type Envelope struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeEnvelope marshals a payload and wraps it with its topic.
func EncodeEnvelope(topic string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	return json.Marshal(Envelope{Topic: topic, Payload: raw})
}

// DecodeEnvelope unmarshals a wire frame and checks it is routable.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env.Topic == "" {
		return Envelope{}, ErrMissingTopic
	}
	if len(env.Payload) == 0 {
		return Envelope{}, ErrEmptyPayload
	}
	return env, nil
}

type validatable interface {
	Validate() error
}

func decode[T validatable](data []byte, topic string) (T, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("failed to decode %s message: %w", topic, err)
	}
	if err := msg.Validate(); err != nil {
		return msg, fmt.Errorf("invalid %s message: %w", topic, err)
	}
	return msg, nil
}

// DecodeVisual parses a visual topic payload.
func DecodeVisual(data []byte) (Visual, error) {
	return decode[Visual](data, TopicVisual)
}

// DecodeLight parses a light topic payload.
func DecodeLight(data []byte) (Light, error) {
	return decode[Light](data, TopicLight)
}

// DecodePose parses a pose topic payload.
func DecodePose(data []byte) (PoseUpdate, error) {
	return decode[PoseUpdate](data, TopicPose)
}

// DecodeSelection parses a selection topic payload. An empty ID is valid and
// means select-none.
func DecodeSelection(data []byte) (Selection, error) {
	var msg Selection
	if err := json.Unmarshal(data, &msg); err != nil {
		return Selection{}, fmt.Errorf("failed to decode %s message: %w", TopicSelection, err)
	}
	return msg, nil
}

// DecodeSceneState parses an aggregate snapshot payload.
func DecodeSceneState(data []byte) (SceneState, error) {
	var msg SceneState
	if err := json.Unmarshal(data, &msg); err != nil {
		return SceneState{}, fmt.Errorf("failed to decode %s message: %w", TopicScene, err)
	}
	return msg, nil
}
