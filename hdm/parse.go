package hdm

import (
	"fmt"

	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/tree"
)

var topLevelKeys = map[string]bool{
	"time_units": true, "generation_time": true, "description": true,
	"doi": true, "metadata": true, "defaults": true,
	"demes": true, "migrations": true, "pulses": true,
}

var demeKeys = map[string]bool{
	"name": true, "description": true, "ancestors": true,
	"proportions": true, "start_time": true, "defaults": true, "epochs": true,
}

var epochKeys = map[string]bool{
	"end_time": true, "start_size": true, "end_size": true,
	"size_function": true, "cloning_rate": true, "selfing_rate": true,
}

var migrationKeys = map[string]bool{
	"demes": true, "source": true, "dest": true,
	"rate": true, "start_time": true, "end_time": true,
}

var pulseKeys = map[string]bool{
	"sources": true, "dest": true, "proportions": true, "time": true,
}

func checkUnrecognized(n tree.Node, allowed map[string]bool, entity string) error {
	for _, k := range n.Keys() {
		if !allowed[k] {
			return resolveerr.Newf(resolveerr.UnrecognizedField, nil, "%s: unrecognized field %q", entity, k)
		}
	}
	return nil
}

// Parse converts a tree.Node into an *hdm.Graph, rejecting any
// unrecognized top-level, deme, epoch, migration, or pulse key. It does
// not apply defaulting or cross-entity validation; see the resolve package
// for that.
func Parse(n tree.Node) (*Graph, error) {
	if n.Kind != tree.MappingKind {
		return nil, resolveerr.New(resolveerr.MissingRequired, "document root must be a mapping", nil)
	}
	if err := checkUnrecognized(n, topLevelKeys, "graph"); err != nil {
		return nil, err
	}

	g := &Graph{}

	if n.Has("time_units") {
		tu, err := scalarString(n, "time_units")
		if err != nil {
			return nil, err
		}
		g.TimeUnits = tu
	}

	if n.Has("generation_time") {
		v, err := scalarFloat(n, "generation_time")
		if err != nil {
			return nil, err
		}
		g.GenerationTime = &v
	}

	if n.Has("description") {
		v, err := scalarString(n, "description")
		if err != nil {
			return nil, err
		}
		g.Description = v
	}

	if n.Has("doi") {
		doiNode, _ := n.Get("doi")
		list, err := stringSequence(doiNode, "doi")
		if err != nil {
			return nil, err
		}
		g.DOI = list
	}

	if n.Has("metadata") {
		mNode, _ := n.Get("metadata")
		if mNode.Kind != tree.MappingKind {
			return nil, resolveerr.New(resolveerr.MissingRequired, "metadata must be a mapping", nil)
		}
		meta := make(map[string]any, len(mNode.Keys()))
		for _, k := range mNode.Keys() {
			v, _ := mNode.Get(k)
			meta[k] = v.Scalar()
		}
		g.Metadata = meta
	}

	if n.Has("defaults") {
		dNode, _ := n.Get("defaults")
		defaults, err := parseDefaults(dNode)
		if err != nil {
			return nil, err
		}
		g.Defaults = defaults
	}

	if !n.Has("demes") {
		return nil, resolveerr.New(resolveerr.TopologyError, "demes: required, non-empty", nil)
	}
	demesNode, _ := n.Get("demes")
	if demesNode.Kind != tree.SequenceKind || len(demesNode.Items()) == 0 {
		return nil, resolveerr.New(resolveerr.TopologyError, "demes: required, non-empty", nil)
	}
	for i, item := range demesNode.Items() {
		d, err := parseDeme(item, i)
		if err != nil {
			return nil, err
		}
		g.Demes = append(g.Demes, d)
	}

	if n.Has("migrations") {
		migNode, _ := n.Get("migrations")
		for i, item := range migNode.Items() {
			m, err := parseMigration(item, i)
			if err != nil {
				return nil, err
			}
			g.Migrations = append(g.Migrations, m)
		}
	}

	if n.Has("pulses") {
		pulseNode, _ := n.Get("pulses")
		for i, item := range pulseNode.Items() {
			p, err := parsePulse(item, i)
			if err != nil {
				return nil, err
			}
			g.Pulses = append(g.Pulses, p)
		}
	}

	return g, nil
}

func parseDefaults(n tree.Node) (Defaults, error) {
	var d Defaults
	if err := checkUnrecognized(n, map[string]bool{"epoch": true, "migration": true, "pulse": true}, "defaults"); err != nil {
		return d, err
	}
	if n.Has("epoch") {
		eNode, _ := n.Get("epoch")
		ed, err := parseEpochDefaults(eNode, "defaults.epoch")
		if err != nil {
			return d, err
		}
		d.Epoch = ed
	}
	if n.Has("migration") {
		mNode, _ := n.Get("migration")
		if err := checkUnrecognized(mNode, map[string]bool{"rate": true, "start_time": true, "end_time": true}, "defaults.migration"); err != nil {
			return d, err
		}
		if mNode.Has("rate") {
			v, err := scalarFloat(mNode, "rate")
			if err != nil {
				return d, err
			}
			d.Migration.Rate = &v
		}
		if mNode.Has("start_time") {
			v, err := scalarFloat(mNode, "start_time")
			if err != nil {
				return d, err
			}
			d.Migration.StartTime = &v
		}
		if mNode.Has("end_time") {
			v, err := scalarFloat(mNode, "end_time")
			if err != nil {
				return d, err
			}
			d.Migration.EndTime = &v
		}
	}
	if n.Has("pulse") {
		pNode, _ := n.Get("pulse")
		if err := checkUnrecognized(pNode, map[string]bool{"time": true}, "defaults.pulse"); err != nil {
			return d, err
		}
		if pNode.Has("time") {
			v, err := scalarFloat(pNode, "time")
			if err != nil {
				return d, err
			}
			d.Pulse.Time = &v
		}
	}
	return d, nil
}

func parseEpochDefaults(n tree.Node, entity string) (EpochDefaults, error) {
	var ed EpochDefaults
	if err := checkUnrecognized(n, epochKeys, entity); err != nil {
		return ed, err
	}
	if n.Has("end_time") {
		v, err := scalarFloat(n, "end_time")
		if err != nil {
			return ed, err
		}
		ed.EndTime = &v
	}
	if n.Has("start_size") {
		v, err := scalarFloat(n, "start_size")
		if err != nil {
			return ed, err
		}
		ed.StartSize = &v
	}
	if n.Has("end_size") {
		v, err := scalarFloat(n, "end_size")
		if err != nil {
			return ed, err
		}
		ed.EndSize = &v
	}
	if n.Has("size_function") {
		v, err := scalarString(n, "size_function")
		if err != nil {
			return ed, err
		}
		ed.SizeFunction = &v
	}
	if n.Has("cloning_rate") {
		v, err := scalarFloat(n, "cloning_rate")
		if err != nil {
			return ed, err
		}
		ed.CloningRate = &v
	}
	if n.Has("selfing_rate") {
		v, err := scalarFloat(n, "selfing_rate")
		if err != nil {
			return ed, err
		}
		ed.SelfingRate = &v
	}
	return ed, nil
}

func parseDeme(n tree.Node, idx int) (*Deme, error) {
	entity := fmt.Sprintf("deme[%d]", idx)
	if err := checkUnrecognized(n, demeKeys, entity); err != nil {
		return nil, err
	}
	if !n.Has("name") {
		return nil, resolveerr.Newf(resolveerr.NameError, nil, "%s: name is required", entity)
	}
	name, err := scalarString(n, "name")
	if err != nil {
		return nil, err
	}
	d := &Deme{Name: name}

	if n.Has("description") {
		v, err := scalarString(n, "description")
		if err != nil {
			return nil, err
		}
		d.Description = v
	}

	if n.Has("ancestors") {
		anNode, _ := n.Get("ancestors")
		list, err := stringSequence(anNode, entity+".ancestors")
		if err != nil {
			return nil, err
		}
		d.Ancestors = list
	}

	if n.Has("proportions") {
		prNode, _ := n.Get("proportions")
		list, err := floatSequence(prNode, entity+".proportions")
		if err != nil {
			return nil, err
		}
		d.Proportions = list
	}

	if n.Has("start_time") {
		v, err := scalarFloat(n, "start_time")
		if err != nil {
			return nil, err
		}
		d.StartTime = &v
	}

	if n.Has("defaults") {
		defNode, _ := n.Get("defaults")
		if err := checkUnrecognized(defNode, map[string]bool{"epoch": true}, entity+".defaults"); err != nil {
			return nil, err
		}
		if defNode.Has("epoch") {
			eNode, _ := defNode.Get("epoch")
			ed, err := parseEpochDefaults(eNode, entity+".defaults.epoch")
			if err != nil {
				return nil, err
			}
			d.Defaults = ed
		}
	}

	if !n.Has("epochs") {
		return nil, resolveerr.Newf(resolveerr.MissingRequired, nil, "%s: epochs is required", entity)
	}
	epochsNode, _ := n.Get("epochs")
	if epochsNode.Kind != tree.SequenceKind || len(epochsNode.Items()) == 0 {
		return nil, resolveerr.Newf(resolveerr.MissingRequired, nil, "%s: epochs must be a non-empty sequence", entity)
	}
	for i, item := range epochsNode.Items() {
		e, err := parseEpoch(item, fmt.Sprintf("%s.epochs[%d]", entity, i))
		if err != nil {
			return nil, err
		}
		d.Epochs = append(d.Epochs, e)
	}

	return d, nil
}

func parseEpoch(n tree.Node, entity string) (*Epoch, error) {
	ed, err := parseEpochDefaults(n, entity)
	if err != nil {
		return nil, err
	}
	return (*Epoch)(&ed), nil
}

func parseMigration(n tree.Node, idx int) (*Migration, error) {
	entity := fmt.Sprintf("migration[%d]", idx)
	if err := checkUnrecognized(n, migrationKeys, entity); err != nil {
		return nil, err
	}
	m := &Migration{}
	hasDemes := n.Has("demes")
	hasSrcDest := n.Has("source") || n.Has("dest")
	if hasDemes == hasSrcDest {
		return nil, resolveerr.Newf(resolveerr.TopologyError, nil, "%s: must set exactly one of 'demes' (symmetric) or 'source'+'dest' (asymmetric)", entity)
	}
	if hasDemes {
		demesNode, _ := n.Get("demes")
		list, err := stringSequence(demesNode, entity+".demes")
		if err != nil {
			return nil, err
		}
		if len(list) < 2 {
			return nil, resolveerr.Newf(resolveerr.TopologyError, nil, "%s: symmetric 'demes' list needs at least 2 entries", entity)
		}
		m.Demes = list
	} else {
		if !n.Has("source") || !n.Has("dest") {
			return nil, resolveerr.Newf(resolveerr.NameError, nil, "%s: asymmetric migration requires both source and dest", entity)
		}
		src, err := scalarString(n, "source")
		if err != nil {
			return nil, err
		}
		dst, err := scalarString(n, "dest")
		if err != nil {
			return nil, err
		}
		m.Source, m.Dest = src, dst
	}

	if n.Has("rate") {
		v, err := scalarFloat(n, "rate")
		if err != nil {
			return nil, err
		}
		m.Rate = &v
	}
	if n.Has("start_time") {
		v, err := scalarFloat(n, "start_time")
		if err != nil {
			return nil, err
		}
		m.StartTime = &v
	}
	if n.Has("end_time") {
		v, err := scalarFloat(n, "end_time")
		if err != nil {
			return nil, err
		}
		m.EndTime = &v
	}
	return m, nil
}

func parsePulse(n tree.Node, idx int) (*Pulse, error) {
	entity := fmt.Sprintf("pulse[%d]", idx)
	if err := checkUnrecognized(n, pulseKeys, entity); err != nil {
		return nil, err
	}
	if !n.Has("sources") {
		return nil, resolveerr.Newf(resolveerr.NameError, nil, "%s: sources is required", entity)
	}
	srcNode, _ := n.Get("sources")
	sources, err := stringSequence(srcNode, entity+".sources")
	if err != nil {
		return nil, err
	}
	if !n.Has("dest") {
		return nil, resolveerr.Newf(resolveerr.NameError, nil, "%s: dest is required", entity)
	}
	dest, err := scalarString(n, "dest")
	if err != nil {
		return nil, err
	}
	if !n.Has("proportions") {
		return nil, resolveerr.Newf(resolveerr.ProportionError, nil, "%s: proportions is required", entity)
	}
	propNode, _ := n.Get("proportions")
	proportions, err := floatSequence(propNode, entity+".proportions")
	if err != nil {
		return nil, err
	}
	p := &Pulse{Sources: sources, Dest: dest, Proportions: proportions}
	if n.Has("time") {
		v, err := scalarFloat(n, "time")
		if err != nil {
			return nil, err
		}
		p.Time = &v
	}
	return p, nil
}

func scalarString(n tree.Node, key string) (string, error) {
	v, err := n.Get(key)
	if err != nil {
		return "", err
	}
	s, err := v.String()
	if err != nil {
		return "", resolveerr.Newf(resolveerr.MissingRequired, err, "%s must be a string", key)
	}
	return s, nil
}

func scalarFloat(n tree.Node, key string) (float64, error) {
	v, err := n.Get(key)
	if err != nil {
		return 0, err
	}
	f, err := v.Float64()
	if err != nil {
		return 0, resolveerr.Newf(resolveerr.MissingRequired, err, "%s must be numeric", key)
	}
	return f, nil
}

func stringSequence(n tree.Node, entity string) ([]string, error) {
	if n.Kind != tree.SequenceKind {
		return nil, resolveerr.Newf(resolveerr.MissingRequired, nil, "%s must be a sequence", entity)
	}
	items := n.Items()
	out := make([]string, len(items))
	for i, item := range items {
		s, err := item.String()
		if err != nil {
			return nil, resolveerr.Newf(resolveerr.MissingRequired, err, "%s[%d] must be a string", entity, i)
		}
		out[i] = s
	}
	return out, nil
}

func floatSequence(n tree.Node, entity string) ([]float64, error) {
	if n.Kind != tree.SequenceKind {
		return nil, resolveerr.Newf(resolveerr.MissingRequired, nil, "%s must be a sequence", entity)
	}
	items := n.Items()
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := item.Float64()
		if err != nil {
			return nil, resolveerr.Newf(resolveerr.MissingRequired, err, "%s[%d] must be numeric", entity, i)
		}
		out[i] = f
	}
	return out, nil
}
