package scene

// Metrics counts reconciliation work since the scene was created.
type Metrics struct {
	// Cycle metrics
	Cycles         uint64
	VisualsCreated uint64
	VisualsUpdated uint64
	VisualsDeleted uint64
	LightsCreated  uint64
	LightsUpdated  uint64
	PosesApplied   uint64
	PosesStaged    uint64

	// Inbound metrics
	MessagesDropped uint64
}
