package ir

// ResourceKind names a class of physical control resource.
type ResourceKind string

const (
	// KindQubits is the per-qubit mutual-exclusion resource.
	KindQubits ResourceKind = "qubits"

	// KindQWGs is the shared microwave drive line (waveform generator) resource.
	KindQWGs ResourceKind = "qwgs"

	// KindMeasUnits is the shared measurement (digitizer) resource.
	KindMeasUnits ResourceKind = "meas_units"

	// KindEdges is the coupling-edge resource with crosstalk.
	KindEdges ResourceKind = "edges"
)

// ModeledResourceKinds lists every kind the resource manager can build.
var ModeledResourceKinds = []ResourceKind{KindQubits, KindQWGs, KindMeasUnits, KindEdges}

// IsModeled reports whether the kind is one the resource manager can build.
func (k ResourceKind) IsModeled() bool {
	for _, m := range ModeledResourceKinds {
		if k == m {
			return true
		}
	}
	return false
}

// ResourceSpec declares one resource kind of a platform.
//
// ConnectionMap is keyed by unit id. For qwgs and meas_units the values are the
// qubits served by the unit; for edges they are the edges in crosstalk with the key.
type ResourceSpec struct {
	Kind          ResourceKind  `json:"kind" yaml:"kind"`
	Count         int           `json:"count" yaml:"count"`
	ConnectionMap map[int][]int `json:"connection_map,omitempty" yaml:"connection_map,omitempty"`
}

// TopologyEdge is a directed qubit pair served by a coupling edge.
type TopologyEdge struct {
	ID  int `json:"id" yaml:"id"`
	Src int `json:"src" yaml:"src"`
	Dst int `json:"dst" yaml:"dst"`
}

// Topology holds the qubit connectivity of a platform.
type Topology struct {
	Edges []TopologyEdge `json:"edges" yaml:"edges"`
}

// InstructionDef is a platform instruction table entry.
// Duration is in nanoseconds, as in hardware descriptors.
type InstructionDef struct {
	Category Category `json:"type" yaml:"type"`
	Duration int64    `json:"duration" yaml:"duration"`
}

// Platform is the typed hardware descriptor consumed by the resource manager.
// Resources keep their declaration order; the manager builds them in that order.
type Platform struct {
	Name         string                    `json:"name" yaml:"name"`
	CycleTime    int64                     `json:"cycle_time" yaml:"cycle_time"`
	QubitCount   int                       `json:"qubit_number" yaml:"qubit_number"`
	Resources    []ResourceSpec            `json:"resources" yaml:"resources"`
	Topology     Topology                  `json:"topology" yaml:"topology"`
	Instructions map[string]InstructionDef `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// Resource returns the first declared spec of the given kind.
func (p *Platform) Resource(kind ResourceKind) (ResourceSpec, bool) {
	for _, r := range p.Resources {
		if r.Kind == kind {
			return r, true
		}
	}
	return ResourceSpec{}, false
}

// Qubits returns the number of physical qubits: the qubits resource count when
// declared, otherwise qubit_number.
func (p *Platform) Qubits() int {
	if r, ok := p.Resource(KindQubits); ok && r.Count > 0 {
		return r.Count
	}
	return p.QubitCount
}

// Cycles converts a duration in nanoseconds to whole cycles, rounding up.
// A platform without a cycle time treats durations as already in cycles.
func (p *Platform) Cycles(ns int64) int64 {
	if p.CycleTime <= 0 {
		return ns
	}
	return (ns + p.CycleTime - 1) / p.CycleTime
}

// Instruction builds an Instruction for a gate from the platform's instruction
// table. The second result is false when the gate name is not defined.
func (p *Platform) Instruction(name string, qubits []int) (Instruction, bool) {
	def, ok := p.Instructions[name]
	if !ok {
		def, ok = p.Instructions[NormalizeName(name)]
	}
	if !ok {
		return Instruction{}, false
	}
	operands := make([]int, len(qubits))
	copy(operands, qubits)
	return Instruction{
		Name:     name,
		Category: ParseCategory(string(def.Category)),
		Operands: operands,
		Duration: p.Cycles(def.Duration),
	}, true
}
