package domain

// NoNode marks the absence of a node, e.g. the depot of an empty plan.
const NoNode = -1

// Static classification of a node in the road network.
// A node has exactly one kind, fixed when the graph is built.
type NodeKind int

const (
	KindRegular NodeKind = iota
	KindDepot
	KindGasStation
)

func (k NodeKind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDepot:
		return "depot"
	case KindGasStation:
		return "gas_station"
	default:
		return "unknown"
	}
}

// Undirected road segment between two nodes. Weight is the distance.
type Edge struct {
	A      int `json:"a" yaml:"a"`
	B      int `json:"b" yaml:"b"`
	Weight int `json:"weight" yaml:"weight"`
}

// Externally supplied description of the road network.
// Node ids are dense integers in [0, NodeCount).
type GraphDescriptor struct {
	NodeCount   int    `json:"node_count" yaml:"node_count"`
	Depots      []int  `json:"depots" yaml:"depots"`
	GasStations []int  `json:"gas_stations" yaml:"gas_stations"`
	Edges       []Edge `json:"edges" yaml:"edges"`
}
