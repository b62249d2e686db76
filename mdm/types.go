package mdm

import (
	"github.com/demes-go/resolve/scalar"
)

// SizeFunction selects how an Epoch's size varies between its start and end.
type SizeFunction int

const (
	// Constant: size is fixed at start_size (== end_size) for the epoch.
	Constant SizeFunction = iota
	// Exponential: size follows exponential interpolation between endpoints.
	Exponential
	// Linear: size follows linear interpolation between endpoints.
	Linear
)

// String renders a SizeFunction the way it appears in a resolved document.
func (f SizeFunction) String() string {
	switch f {
	case Constant:
		return "constant"
	case Exponential:
		return "exponential"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// Epoch is a maximal time interval over which a deme's size follows a
// single SizeFunction. StartTime is always strictly greater than EndTime
// (backward-time axis: larger value == further in the past).
type Epoch struct {
	startTime    scalar.Time
	endTime      scalar.Time
	startSize    scalar.DemeSize
	endSize      scalar.DemeSize
	sizeFunction SizeFunction
	cloningRate  scalar.CloningRate
	selfingRate  scalar.SelfingRate
}

// StartTime returns the epoch's start time (inclusive boundary).
func (e *Epoch) StartTime() scalar.Time { return e.startTime }

// EndTime returns the epoch's end time (exclusive boundary, except for the
// deme's final epoch where EndTime is the deme's own extinction/sampling
// time and is excluded from the existence window by the same rule).
func (e *Epoch) EndTime() scalar.Time { return e.endTime }

// StartSize returns the size at the epoch's start.
func (e *Epoch) StartSize() scalar.DemeSize { return e.startSize }

// EndSize returns the size at the epoch's end.
func (e *Epoch) EndSize() scalar.DemeSize { return e.endSize }

// SizeFunction returns the epoch's interpolation function.
func (e *Epoch) SizeFunction() SizeFunction { return e.sizeFunction }

// CloningRate returns the epoch's asexual-reproduction fraction.
func (e *Epoch) CloningRate() scalar.CloningRate { return e.cloningRate }

// SelfingRate returns the epoch's self-fertilization fraction.
func (e *Epoch) SelfingRate() scalar.SelfingRate { return e.selfingRate }

// Deme is a (sub-)population with its own size history.
type Deme struct {
	name        string
	description string
	ancestors   []int
	proportions []scalar.Proportion
	startTime   scalar.Time
	epochs      []*Epoch
}

// Name returns the deme's unique name.
func (d *Deme) Name() string { return d.name }

// Description returns the deme's free-form description (may be empty).
func (d *Deme) Description() string { return d.description }

// AncestorIndices returns the indices (into Graph.Demes()) of this deme's
// ancestors, in declaration order. Empty for a root deme.
func (d *Deme) AncestorIndices() []int {
	out := make([]int, len(d.ancestors))
	copy(out, d.ancestors)
	return out
}

// AncestorProportions returns the ancestry weight contributed by each
// ancestor, aligned by position with AncestorIndices(); sums to 1 when
// non-empty.
func (d *Deme) AncestorProportions() []scalar.Proportion {
	out := make([]scalar.Proportion, len(d.proportions))
	copy(out, d.proportions)
	return out
}

// StartTime returns the time the deme begins existing; scalar.Infinity()
// for a root deme with no explicit start_time.
func (d *Deme) StartTime() scalar.Time { return d.startTime }

// EndTime returns the time the deme stops existing: the end_time of its
// final epoch.
func (d *Deme) EndTime() scalar.Time { return d.epochs[len(d.epochs)-1].endTime }

// StartSize returns the size at the deme's first epoch's start.
func (d *Deme) StartSize() scalar.DemeSize { return d.epochs[0].startSize }

// EndSize returns the size at the deme's final epoch's end.
func (d *Deme) EndSize() scalar.DemeSize { return d.epochs[len(d.epochs)-1].endSize }

// Epochs returns the deme's epochs in past-to-present order.
func (d *Deme) Epochs() []*Epoch {
	out := make([]*Epoch, len(d.epochs))
	copy(out, d.epochs)
	return out
}

// Exists reports whether t falls within the deme's existence window
// (EndTime(), StartTime()]: open at the end, closed at the start.
func (d *Deme) Exists(t scalar.Time) bool {
	end := d.EndTime()
	if t.Value() <= end.Value() {
		return false
	}
	if d.startTime.IsInfinite() {
		return true
	}
	return t.Value() <= d.startTime.Value()
}

// AsymmetricMigration is continuous per-generation gene flow from Source to
// Dest over [EndTime, StartTime).
type AsymmetricMigration struct {
	source, dest int
	rate         scalar.MigrationRate
	startTime    scalar.Time
	endTime      scalar.Time
}

// Source returns the migration's source deme index.
func (m *AsymmetricMigration) Source() int { return m.source }

// Dest returns the migration's destination deme index.
func (m *AsymmetricMigration) Dest() int { return m.dest }

// Rate returns the per-generation migration fraction.
func (m *AsymmetricMigration) Rate() scalar.MigrationRate { return m.rate }

// StartTime returns the migration window's start (exclusive).
func (m *AsymmetricMigration) StartTime() scalar.Time { return m.startTime }

// EndTime returns the migration window's end (inclusive), unlike a deme's
// existence window, whose end is excluded.
func (m *AsymmetricMigration) EndTime() scalar.Time { return m.endTime }

// Active reports whether t falls in [EndTime, StartTime).
func (m *AsymmetricMigration) Active(t scalar.Time) bool {
	return t.Value() >= m.endTime.Value() && t.Value() < m.startTime.Value()
}

// Pulse is an instantaneous admixture event redistributing ancestry in Dest
// from one or more Sources, at Time.
type Pulse struct {
	sources     []int
	dest        int
	proportions []scalar.Proportion
	time        scalar.Time
}

// Sources returns the indices of the pulse's source demes, in declaration order.
func (p *Pulse) Sources() []int {
	out := make([]int, len(p.sources))
	copy(out, p.sources)
	return out
}

// Dest returns the pulse's destination deme index.
func (p *Pulse) Dest() int { return p.dest }

// Proportions returns the ancestry contribution from each source, aligned
// by position with Sources().
func (p *Pulse) Proportions() []scalar.Proportion {
	out := make([]scalar.Proportion, len(p.proportions))
	copy(out, p.proportions)
	return out
}

// Time returns the instant the pulse occurs.
func (p *Pulse) Time() scalar.Time { return p.time }

// Graph is the fully resolved demographic model.
type Graph struct {
	timeUnits      string
	generationTime scalar.GenerationTime
	description    string
	doi            []string
	metadata       map[string]any

	demes     []*Deme
	demeIndex map[string]int

	migrations []*AsymmetricMigration
	pulses     []*Pulse
}

// TimeUnits returns the graph's declared time unit name.
func (g *Graph) TimeUnits() string { return g.timeUnits }

// GenerationTime returns the number of time_units per generation.
func (g *Graph) GenerationTime() scalar.GenerationTime { return g.generationTime }

// Description returns the graph's free-form description (may be empty).
func (g *Graph) Description() string { return g.description }

// DOI returns the graph's list of digital object identifiers.
func (g *Graph) DOI() []string {
	out := make([]string, len(g.doi))
	copy(out, g.doi)
	return out
}

// Metadata returns the graph's free-form metadata mapping.
func (g *Graph) Metadata() map[string]any {
	out := make(map[string]any, len(g.metadata))
	for k, v := range g.metadata {
		out[k] = v
	}
	return out
}

// Demes returns the graph's demes in declaration order.
func (g *Graph) Demes() []*Deme {
	out := make([]*Deme, len(g.demes))
	copy(out, g.demes)
	return out
}

// DemeIndex returns the declaration-order index of the deme named name.
func (g *Graph) DemeIndex(name string) (int, bool) {
	idx, ok := g.demeIndex[name]
	return idx, ok
}

// DemeByName returns the deme named name.
func (g *Graph) DemeByName(name string) (*Deme, bool) {
	idx, ok := g.demeIndex[name]
	if !ok {
		return nil, false
	}
	return g.demes[idx], true
}

// Migrations returns the graph's asymmetric migrations, in the expansion
// order produced by stage R7 (symmetric entries expand in place, in
// listed order).
func (g *Graph) Migrations() []*AsymmetricMigration {
	out := make([]*AsymmetricMigration, len(g.migrations))
	copy(out, g.migrations)
	return out
}

// Pulses returns the graph's pulses in declaration order.
func (g *Graph) Pulses() []*Pulse {
	out := make([]*Pulse, len(g.pulses))
	copy(out, g.pulses)
	return out
}
