package compiler

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"

	"github.com/roach88/qsched/internal/ir"
)

// CompilePlatform parses a CUE value into a Platform.
//
// The value uses the descriptor layout:
//
//	name:         "s7"
//	cycle_time:   20          // or hardware_settings: cycle_time
//	qubit_number: 7           // or hardware_settings: qubit_number
//	resources: {
//		qubits: count: 7
//		qwgs: { count: 3, connection_map: { "0": [0, 1], ... } }
//	}
//	topology: edges: [{ id: 0, src: 2, dst: 0 }, ...]
//	instructions: { x90: { type: "mw", duration: 20 }, ... }
//
// Resources keep their CUE declaration order.
func CompilePlatform(v cue.Value) (*ir.Platform, error) {
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	p := &ir.Platform{}

	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		p.Name = name
	}

	var err error
	if p.CycleTime, err = lookupSetting(v, "cycle_time"); err != nil {
		return nil, err
	}
	qubits, err := lookupSetting(v, "qubit_number")
	if err != nil {
		return nil, err
	}
	p.QubitCount = int(qubits)

	if p.Resources, err = parseResources(v); err != nil {
		return nil, err
	}
	if p.Topology.Edges, err = parseTopology(v); err != nil {
		return nil, err
	}
	if p.Instructions, err = parseInstructions(v); err != nil {
		return nil, err
	}

	return p, nil
}

// lookupSetting reads an integer setting from the top level, falling back to
// hardware_settings. Missing settings are zero.
func lookupSetting(v cue.Value, name string) (int64, error) {
	for _, path := range []string{name, "hardware_settings." + name} {
		sv := v.LookupPath(cue.ParsePath(path))
		if !sv.Exists() {
			continue
		}
		n, err := sv.Int64()
		if err != nil {
			return 0, &CompileError{Field: path, Message: "must be an integer", Pos: sv.Pos()}
		}
		return n, nil
	}
	return 0, nil
}

func parseResources(v cue.Value) ([]ir.ResourceSpec, error) {
	resVal := v.LookupPath(cue.ParsePath("resources"))
	if !resVal.Exists() {
		return nil, &CompileError{
			Field:   "resources",
			Message: "resources are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := resVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ir.ResourceSpec
	for iter.Next() {
		kind := iter.Label()
		rv := iter.Value()
		field := "resources." + kind

		countVal := rv.LookupPath(cue.ParsePath("count"))
		if !countVal.Exists() {
			return nil, &CompileError{Field: field + ".count", Message: "count is required", Pos: rv.Pos()}
		}
		count, err := countVal.Int64()
		if err != nil {
			return nil, &CompileError{Field: field + ".count", Message: "count must be an integer", Pos: countVal.Pos()}
		}

		spec := ir.ResourceSpec{Kind: ir.ResourceKind(kind), Count: int(count)}
		cmVal := rv.LookupPath(cue.ParsePath("connection_map"))
		if cmVal.Exists() {
			if spec.ConnectionMap, err = parseConnectionMap(cmVal, field+".connection_map"); err != nil {
				return nil, err
			}
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// parseConnectionMap reads { "<unit>": [ints...] }.
func parseConnectionMap(v cue.Value, field string) (map[int][]int, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	cm := make(map[int][]int)
	for iter.Next() {
		key, err := strconv.Atoi(iter.Label())
		if err != nil {
			return nil, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("key %q is not an integer", iter.Label()),
				Pos:     iter.Value().Pos(),
			}
		}
		ids, err := parseIntList(iter.Value(), fmt.Sprintf("%s.%d", field, key))
		if err != nil {
			return nil, err
		}
		cm[key] = ids
	}
	return cm, nil
}

func parseIntList(v cue.Value, field string) ([]int, error) {
	list, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: field, Message: "must be a list of integers", Pos: v.Pos()}
	}
	ids := []int{}
	for list.Next() {
		n, err := list.Value().Int64()
		if err != nil {
			return nil, &CompileError{Field: field, Message: "must be a list of integers", Pos: list.Value().Pos()}
		}
		ids = append(ids, int(n))
	}
	return ids, nil
}

func parseTopology(v cue.Value) ([]ir.TopologyEdge, error) {
	edgesVal := v.LookupPath(cue.ParsePath("topology.edges"))
	if !edgesVal.Exists() {
		return nil, nil
	}

	list, err := edgesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var edges []ir.TopologyEdge
	for i := 0; list.Next(); i++ {
		ev := list.Value()
		var e ir.TopologyEdge
		fields := []struct {
			name string
			dst  *int
		}{{"id", &e.ID}, {"src", &e.Src}, {"dst", &e.Dst}}
		for _, f := range fields {
			fv := ev.LookupPath(cue.ParsePath(f.name))
			field := fmt.Sprintf("topology.edges[%d].%s", i, f.name)
			if !fv.Exists() {
				return nil, &CompileError{Field: field, Message: "is required", Pos: ev.Pos()}
			}
			n, err := fv.Int64()
			if err != nil {
				return nil, &CompileError{Field: field, Message: "must be an integer", Pos: fv.Pos()}
			}
			*f.dst = int(n)
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func parseInstructions(v cue.Value) (map[string]ir.InstructionDef, error) {
	insVal := v.LookupPath(cue.ParsePath("instructions"))
	if !insVal.Exists() {
		return nil, nil
	}

	iter, err := insVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	defs := make(map[string]ir.InstructionDef)
	for iter.Next() {
		name := iter.Label()
		iv := iter.Value()
		field := "instructions." + name

		def := ir.InstructionDef{Category: ir.CategoryOther}
		if tv := iv.LookupPath(cue.ParsePath("type")); tv.Exists() {
			s, err := tv.String()
			if err != nil {
				return nil, &CompileError{Field: field + ".type", Message: "must be a string", Pos: tv.Pos()}
			}
			def.Category = ir.ParseCategory(s)
		}

		dv := iv.LookupPath(cue.ParsePath("duration"))
		if !dv.Exists() {
			return nil, &CompileError{Field: field + ".duration", Message: "duration is required", Pos: iv.Pos()}
		}
		d, err := dv.Int64()
		if err != nil {
			return nil, &CompileError{Field: field + ".duration", Message: "duration must be an integer (ns)", Pos: dv.Pos()}
		}
		def.Duration = d

		defs[name] = def
	}
	return defs, nil
}
