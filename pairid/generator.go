package pairid

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator mints pair identifiers. It is safe for concurrent use; the
// underlying node serializes id generation so no two ids minted in the same
// millisecond on the same node collide.
type Generator struct {
	node *snowflake.Node
}

// NewGenerator returns a Generator for the given node id. Node ids must be
// unique per process across the cluster (0–1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("pairid node: %w", err)
	}
	return &Generator{node: node}, nil
}

// Next mints one identifier. Ids are never reused within the lifetime of the
// snowflake epoch.
func (g *Generator) Next() string {
	return g.node.Generate().String()
}
