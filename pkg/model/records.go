// Package model holds the raw records castgraph reads from its two input
// documents. Records are immutable once decoded.
package model

// NodeRecord describes one character. Records are keyed by ID.
type NodeRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Movie       string `json:"movie"`
	Description string `json:"description"`
}

// EdgeRecord is a directed relationship between two characters. Several
// edges may share the same source/target pair.
type EdgeRecord struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Interaction string `json:"interaction"`
}

// Dataset pairs the two documents that make up one graph.
type Dataset struct {
	Edges []EdgeRecord
	Nodes []NodeRecord
}

// Empty reports whether the dataset has nothing to draw.
func (d Dataset) Empty() bool {
	return len(d.Edges) == 0
}
