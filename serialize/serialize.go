package serialize

import (
	"github.com/demes-go/resolve/mdm"
	"github.com/demes-go/resolve/tree"
)

// Encode renders a resolved graph as a tree.Node in the same shape
// hdm.Parse consumes. Every epoch, migration, and pulse field is written
// explicitly; empty descriptions, doi and metadata, empty ancestor lists,
// and a root deme's infinite start_time are omitted, and no defaults block
// is written. Each omitted field resolves back to the same value, so
// re-parsing and re-resolving the result yields an equal *mdm.Graph
// (spec.md §8's round-trip law).
func Encode(g *mdm.Graph) (tree.Node, error) {
	root := tree.NewMapping()

	root.Set("time_units", tree.NewScalar(g.TimeUnits()))
	root.Set("generation_time", tree.NewScalar(g.GenerationTime().Value()))

	if desc := g.Description(); desc != "" {
		root.Set("description", tree.NewScalar(desc))
	}
	if doi := g.DOI(); len(doi) > 0 {
		items := make([]tree.Node, len(doi))
		for i, d := range doi {
			items[i] = tree.NewScalar(d)
		}
		root.Set("doi", tree.NewSequence(items...))
	}
	if meta := g.Metadata(); len(meta) > 0 {
		metaNode := tree.NewMapping()
		for k, v := range meta {
			metaNode.Set(k, tree.NewScalar(v))
		}
		root.Set("metadata", metaNode)
	}

	demes := g.Demes()
	demeSeq := make([]tree.Node, len(demes))
	for i, d := range demes {
		demeSeq[i] = encodeDeme(d, demes)
	}
	root.Set("demes", tree.NewSequence(demeSeq...))

	if migrations := g.Migrations(); len(migrations) > 0 {
		migSeq := make([]tree.Node, len(migrations))
		for i, m := range migrations {
			migSeq[i] = encodeMigration(m, demes)
		}
		root.Set("migrations", tree.NewSequence(migSeq...))
	}

	if pulses := g.Pulses(); len(pulses) > 0 {
		pulseSeq := make([]tree.Node, len(pulses))
		for i, p := range pulses {
			pulseSeq[i] = encodePulse(p, demes)
		}
		root.Set("pulses", tree.NewSequence(pulseSeq...))
	}

	return root, nil
}

func encodeDeme(d *mdm.Deme, allDemes []*mdm.Deme) tree.Node {
	n := tree.NewMapping()
	n.Set("name", tree.NewScalar(d.Name()))
	if desc := d.Description(); desc != "" {
		n.Set("description", tree.NewScalar(desc))
	}

	ancestorIdx := d.AncestorIndices()
	if len(ancestorIdx) > 0 {
		names := make([]tree.Node, len(ancestorIdx))
		for i, idx := range ancestorIdx {
			names[i] = tree.NewScalar(allDemes[idx].Name())
		}
		n.Set("ancestors", tree.NewSequence(names...))

		proportions := d.AncestorProportions()
		propNodes := make([]tree.Node, len(proportions))
		for i, p := range proportions {
			propNodes[i] = tree.NewScalar(p.Value())
		}
		n.Set("proportions", tree.NewSequence(propNodes...))
	}

	if !d.StartTime().IsInfinite() {
		n.Set("start_time", tree.NewScalar(d.StartTime().Value()))
	}

	epochs := d.Epochs()
	epochSeq := make([]tree.Node, len(epochs))
	for i, e := range epochs {
		epochSeq[i] = encodeEpoch(e)
	}
	n.Set("epochs", tree.NewSequence(epochSeq...))

	return n
}

func encodeEpoch(e *mdm.Epoch) tree.Node {
	n := tree.NewMapping()
	n.Set("end_time", tree.NewScalar(e.EndTime().Value()))
	n.Set("start_size", tree.NewScalar(e.StartSize().Value()))
	n.Set("end_size", tree.NewScalar(e.EndSize().Value()))
	n.Set("size_function", tree.NewScalar(e.SizeFunction().String()))
	n.Set("cloning_rate", tree.NewScalar(e.CloningRate().Value()))
	n.Set("selfing_rate", tree.NewScalar(e.SelfingRate().Value()))
	return n
}

func encodeMigration(m *mdm.AsymmetricMigration, allDemes []*mdm.Deme) tree.Node {
	n := tree.NewMapping()
	n.Set("source", tree.NewScalar(allDemes[m.Source()].Name()))
	n.Set("dest", tree.NewScalar(allDemes[m.Dest()].Name()))
	n.Set("rate", tree.NewScalar(m.Rate().Value()))
	n.Set("start_time", tree.NewScalar(m.StartTime().Value()))
	n.Set("end_time", tree.NewScalar(m.EndTime().Value()))
	return n
}

func encodePulse(p *mdm.Pulse, allDemes []*mdm.Deme) tree.Node {
	n := tree.NewMapping()
	sources := p.Sources()
	srcNodes := make([]tree.Node, len(sources))
	for i, idx := range sources {
		srcNodes[i] = tree.NewScalar(allDemes[idx].Name())
	}
	n.Set("sources", tree.NewSequence(srcNodes...))
	n.Set("dest", tree.NewScalar(allDemes[p.Dest()].Name()))

	proportions := p.Proportions()
	propNodes := make([]tree.Node, len(proportions))
	for i, pr := range proportions {
		propNodes[i] = tree.NewScalar(pr.Value())
	}
	n.Set("proportions", tree.NewSequence(propNodes...))
	n.Set("time", tree.NewScalar(p.Time().Value()))
	return n
}
