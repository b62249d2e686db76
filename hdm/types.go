package hdm

// Graph is the top-level Unresolved document.
type Graph struct {
	TimeUnits      string
	GenerationTime *float64
	Description    string
	DOI            []string
	Metadata       map[string]any
	Defaults       Defaults
	Demes          []*Deme
	Migrations     []*Migration
	Pulses         []*Pulse
}

// Defaults holds the three top-level defaults sub-blocks.
type Defaults struct {
	Epoch     EpochDefaults
	Migration MigrationDefaults
	Pulse     PulseDefaults
}

// EpochDefaults carries optional overrides applied to every epoch that
// does not set the corresponding field itself. Used both at graph scope
// (defaults.epoch) and deme scope (deme.defaults.epoch); the resolver
// layers deme-level over graph-level per stage R4.
type EpochDefaults struct {
	EndTime      *float64
	StartSize    *float64
	EndSize      *float64
	SizeFunction *string
	CloningRate  *float64
	SelfingRate  *float64
}

// MigrationDefaults carries optional overrides for migration entries that
// omit rate/start_time/end_time.
type MigrationDefaults struct {
	Rate      *float64
	StartTime *float64
	EndTime   *float64
}

// PulseDefaults carries optional overrides for pulse entries that omit time.
type PulseDefaults struct {
	Time *float64
}

// Deme is one Unresolved deme entry.
type Deme struct {
	Name        string
	Description string
	Ancestors   []string
	Proportions []float64
	StartTime   *float64
	Defaults    EpochDefaults
	Epochs      []*Epoch
}

// Epoch is one Unresolved epoch entry within a Deme.
type Epoch struct {
	EndTime      *float64
	StartSize    *float64
	EndSize      *float64
	SizeFunction *string
	CloningRate  *float64
	SelfingRate  *float64
}

// Migration is one migrations-list entry: either the symmetric shorthand
// (Demes non-empty, meaning every ordered pair among them) or a single
// asymmetric entry (Source/Dest set).
type Migration struct {
	Demes     []string
	Source    string
	Dest      string
	Rate      *float64
	StartTime *float64
	EndTime   *float64
}

// IsSymmetric reports whether this entry uses the symmetric shorthand.
func (m *Migration) IsSymmetric() bool { return len(m.Demes) > 0 }

// Pulse is one pulses-list entry.
type Pulse struct {
	Sources     []string
	Dest        string
	Proportions []float64
	Time        *float64
}
