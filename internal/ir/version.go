package ir

// Version constants for persisted schedules.
const (
	// IRVersion is the schedule schema version.
	IRVersion = "1"

	// EngineVersion is the qsched scheduler version.
	EngineVersion = "0.1.0"
)
