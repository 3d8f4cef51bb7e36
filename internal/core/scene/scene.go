package scene

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/scenesync/scenesync/internal/core/messages"
	"github.com/scenesync/scenesync/internal/core/observability/log"
	"github.com/scenesync/scenesync/internal/core/transport"
)

// Scene is a client-side replica of the remotely authoritative world state.
// Transport goroutines decode inbound topic payloads and drop them into
// per-topic mailboxes; RunCycle, called once per external tick by a single
// consumer, folds everything received since the previous cycle into the
// entity registry.
//
// The read interface (Visual, Light, Roots, Selection, ...) shares a
// reader-writer lock with the apply phase: readers see either the previous
// snapshot or the next one, never a half-applied graph. Mailbox enqueues
// never take that lock, so producers are never blocked by a slow apply.
type Scene struct {
	name string
	id   string

	mu        sync.RWMutex
	registry  *Registry
	staging   *PoseStaging
	selection *SelectionState

	visualBox *Mailbox[messages.Visual]
	lightBox  *Mailbox[messages.Light]
	poseBox   *Mailbox[messages.PoseUpdate]

	propsMu    sync.Mutex
	ambient    *messages.Color
	background *messages.Color

	node   transport.Node
	subs   []transport.Subscription
	logger log.Log

	metrics     Metrics
	dropped     atomic.Uint64
	initialized bool
	closed      atomic.Bool
}

// New creates an empty scene bound to a transport node. Call Init to start
// receiving state.
func New(name string, node transport.Node, logger log.Log) *Scene {
	id := uuid.NewString()
	return &Scene{
		name:      name,
		id:        id,
		registry:  NewRegistry(),
		staging:   NewPoseStaging(),
		selection: NewSelectionState(),
		visualBox: NewMailbox[messages.Visual](),
		lightBox:  NewMailbox[messages.Light](),
		poseBox:   NewMailbox[messages.PoseUpdate](),
		node:      node,
		logger:    logger.With(log.String("scene", name), log.String("scene_id", id)),
	}
}

// Name returns the scene name.
func (s *Scene) Name() string { return s.name }

// InstanceID returns the unique identifier of this replica instance.
func (s *Scene) InstanceID() string { return s.id }

// Init subscribes to every inbound topic and asks the authority to publish
// its full current state. Zero or more topic messages will eventually
// follow.
func (s *Scene) Init() error {
	if s.closed.Load() {
		return ErrSceneClosed
	}

	handlers := map[string]transport.Handler{
		messages.TopicScene:     s.receiveSceneState,
		messages.TopicVisual:    s.receiveVisual,
		messages.TopicLight:     s.receiveLight,
		messages.TopicPose:      s.receivePose,
		messages.TopicSelection: s.receiveSelection,
	}

	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return ErrAlreadyInitialized
	}
	s.initialized = true
	for topic, h := range handlers {
		sub, err := s.node.Subscribe(topic, h)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
		s.subs = append(s.subs, sub)
	}
	s.mu.Unlock()

	req := messages.Request{Action: messages.RequestPublish}
	if err := s.node.Publish(messages.TopicRequest, req); err != nil {
		return fmt.Errorf("failed to request scene state: %w", err)
	}

	s.logger.Info("scene initialized")
	return nil
}

// RunCycle drains every mailbox and applies the batches against the
// registry: visuals, then lights, then poses, then staged-pose resolution,
// then selection. The fixed order matters: deferred poses resolve against
// visuals created earlier in the same pass. RunCycle never fails; it makes
// progress or leaves work staged for the next cycle.
func (s *Scene) RunCycle() {
	if s.closed.Load() {
		return
	}

	visuals := s.visualBox.Drain()
	lights := s.lightBox.Drain()
	poses := s.poseBox.Drain()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range visuals {
		s.applyVisual(msg)
	}
	for _, msg := range lights {
		s.applyLight(msg)
	}
	for _, msg := range poses {
		s.applyPose(msg.ID, msg.Pose)
	}

	resolved := s.staging.Resolve(s.registry)
	s.metrics.PosesApplied += uint64(resolved)

	s.selection.resolve(s.registry)
	s.metrics.Cycles++
}

// Shutdown cancels every subscription and releases all entities, mailboxes
// and staged state. The transport node itself belongs to the caller.
func (s *Scene) Shutdown() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil

	s.visualBox.Clear()
	s.lightBox.Clear()
	s.poseBox.Clear()
	s.staging.Clear()
	s.selection.Clear()
	s.registry.Clear()

	s.propsMu.Lock()
	s.ambient = nil
	s.background = nil
	s.propsMu.Unlock()

	s.logger.Info("scene shut down")
}

// Visual looks up a visual entity. Valid only between cycles.
func (s *Scene) Visual(id string) (*VisualEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Visual(id)
}

// Light looks up a light entity. Valid only between cycles.
func (s *Scene) Light(id string) (*LightEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Light(id)
}

// Roots enumerates the visuals with no resolved parent.
func (s *Scene) Roots() []*VisualEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Roots()
}

// Selection returns the currently selected identifier, if any.
func (s *Scene) Selection() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection.Current()
}

// Ambient returns the scene ambient color, if the authority has set one.
func (s *Scene) Ambient() (messages.Color, bool) {
	s.propsMu.Lock()
	defer s.propsMu.Unlock()
	if s.ambient == nil {
		return messages.Color{}, false
	}
	return *s.ambient, true
}

// Background returns the scene background color, if set.
func (s *Scene) Background() (messages.Color, bool) {
	s.propsMu.Lock()
	defer s.propsMu.Unlock()
	if s.background == nil {
		return messages.Color{}, false
	}
	return *s.background, true
}

// Metrics returns a snapshot of the reconciliation counters.
func (s *Scene) Metrics() Metrics {
	s.mu.RLock()
	m := s.metrics
	s.mu.RUnlock()
	m.MessagesDropped = s.dropped.Load()
	return m
}

// apply helpers, called with the write lock held.

func (s *Scene) applyVisual(msg messages.Visual) {
	if msg.IsDelete() {
		if s.registry.RemoveVisual(msg.ID) {
			s.metrics.VisualsDeleted++
			s.logger.Debug("visual removed", log.String("id", msg.ID))
		}
		return
	}

	if s.registry.UpsertVisual(msg) {
		s.metrics.VisualsCreated++
		s.logger.Debug("visual created", log.String("id", msg.ID))
	} else {
		s.metrics.VisualsUpdated++
	}
}

func (s *Scene) applyLight(msg messages.Light) {
	if s.registry.UpsertLight(msg) {
		s.metrics.LightsCreated++
		s.logger.Debug("light created", log.String("id", msg.ID))
	} else {
		s.metrics.LightsUpdated++
	}
}

func (s *Scene) applyPose(id string, pose messages.Pose) {
	if s.registry.SetPose(id, pose) {
		s.metrics.PosesApplied++
		return
	}
	s.staging.Stage(id, pose)
	s.metrics.PosesStaged++
}

// receive handlers, called on transport goroutines. They decode, count
// failures and enqueue; they never touch the registry.

func (s *Scene) receiveVisual(payload []byte) {
	msg, err := messages.DecodeVisual(payload)
	if err != nil {
		s.drop(messages.TopicVisual, err)
		return
	}
	s.visualBox.Enqueue(msg)
}

func (s *Scene) receiveLight(payload []byte) {
	msg, err := messages.DecodeLight(payload)
	if err != nil {
		s.drop(messages.TopicLight, err)
		return
	}
	s.lightBox.Enqueue(msg)
}

func (s *Scene) receivePose(payload []byte) {
	msg, err := messages.DecodePose(payload)
	if err != nil {
		s.drop(messages.TopicPose, err)
		return
	}
	s.poseBox.Enqueue(msg)
}

func (s *Scene) receiveSelection(payload []byte) {
	msg, err := messages.DecodeSelection(payload)
	if err != nil {
		s.drop(messages.TopicSelection, err)
		return
	}
	s.selection.SetPending(msg)
}

// receiveSceneState fans an aggregate snapshot out into the per-topic
// mailboxes so the batches apply under the normal ordering rules.
func (s *Scene) receiveSceneState(payload []byte) {
	msg, err := messages.DecodeSceneState(payload)
	if err != nil {
		s.drop(messages.TopicScene, err)
		return
	}

	for _, v := range msg.Visuals {
		if v.ID == "" {
			s.drop(messages.TopicScene, messages.ErrMissingID)
			continue
		}
		s.visualBox.Enqueue(v)
	}
	for _, l := range msg.Lights {
		if l.ID == "" {
			s.drop(messages.TopicScene, messages.ErrMissingID)
			continue
		}
		s.lightBox.Enqueue(l)
	}
	for _, p := range msg.Poses {
		if p.ID == "" {
			s.drop(messages.TopicScene, messages.ErrMissingID)
			continue
		}
		s.poseBox.Enqueue(p)
	}

	if msg.Ambient != nil || msg.Background != nil {
		s.propsMu.Lock()
		if msg.Ambient != nil {
			s.ambient = msg.Ambient
		}
		if msg.Background != nil {
			s.background = msg.Background
		}
		s.propsMu.Unlock()
	}
}

func (s *Scene) drop(topic string, err error) {
	s.dropped.Add(1)
	s.logger.Warn("dropping malformed message", log.String("topic", topic), log.Err(err))
}
