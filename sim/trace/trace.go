package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures every dispatched event.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	// MaxRecords caps the number of stored records; 0 means no cap.
	// Records past the cap are counted in SimulationTrace.Truncated.
	MaxRecords int
}

// SimulationTrace collects event records during a simulation run.
type SimulationTrace struct {
	Config    TraceConfig
	Events    []EventRecord
	Truncated int
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Events: make([]EventRecord, 0),
	}
}

// Enabled reports whether records should be collected.
// Safe on a nil trace.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelEvents
}

// RecordEvent appends an event record, or counts it as truncated once
// MaxRecords is reached.
func (st *SimulationTrace) RecordEvent(record EventRecord) {
	if st.Config.MaxRecords > 0 && len(st.Events) >= st.Config.MaxRecords {
		st.Truncated++
		return
	}
	st.Events = append(st.Events, record)
}

// Reset drops all recorded events, keeping the configuration.
func (st *SimulationTrace) Reset() {
	st.Events = st.Events[:0]
	st.Truncated = 0
}
