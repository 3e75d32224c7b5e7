// Package ffmpeg builds filter graphs and argument lists for the external
// engine, executes it as a blocking subprocess, and parses the stream
// diagnostics it emits.
//
// Filter graphs are constructed as an explicit node representation and only
// rendered to ffmpeg's textual mini-language at the process boundary, so
// graph construction is testable without spawning anything.
package ffmpeg

import "strings"

// Param is one filter option. A Param with an empty Key renders as a bare
// value (e.g. volume=-26dB); otherwise it renders key=value. Params keep
// their declaration order so rendering is deterministic.
type Param struct {
	Key   string
	Value string
}

// Node is one processing step: it consumes previously-produced or
// input-labeled streams and produces exactly one newly-labeled stream.
type Node struct {
	Inputs []string
	Filter string
	Params []Param
	Output string
}

// Graph is a directed acyclic sequence of nodes. Nodes must be appended
// after their input-producing nodes; the final node's output is the graph's
// terminal stream.
type Graph struct {
	nodes []Node
}

// Add appends a node and returns its output label for chaining.
func (g *Graph) Add(n Node) string {
	g.nodes = append(g.nodes, n)
	return n.Output
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.nodes) }

// Terminal returns the output label of the last node, or "" for an empty
// graph.
func (g *Graph) Terminal() string {
	if len(g.nodes) == 0 {
		return ""
	}
	return g.nodes[len(g.nodes)-1].Output
}

// Nodes returns the node sequence (for inspection in tests).
func (g *Graph) Nodes() []Node { return g.nodes }

// String renders the graph in ffmpeg filter_complex syntax:
//
//	[in0][in1]filter=k=v:v2[out];...
//
// Rendering is a pure function of the node sequence; identical graphs render
// to byte-identical text.
func (g *Graph) String() string {
	var b strings.Builder
	for i, n := range g.nodes {
		if i > 0 {
			b.WriteByte(';')
		}
		for _, in := range n.Inputs {
			b.WriteByte('[')
			b.WriteString(in)
			b.WriteByte(']')
		}
		b.WriteString(n.Filter)
		for j, p := range n.Params {
			if j == 0 {
				b.WriteByte('=')
			} else {
				b.WriteByte(':')
			}
			if p.Key != "" {
				b.WriteString(p.Key)
				b.WriteByte('=')
			}
			b.WriteString(p.Value)
		}
		b.WriteByte('[')
		b.WriteString(n.Output)
		b.WriteByte(']')
	}
	return b.String()
}
