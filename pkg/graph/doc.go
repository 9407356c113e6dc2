// Package graph answers dependency queries over the internal packages of a
// monorepo.
//
// The graph is implicit: nodes are the packages of a [monorepo.Index] and
// outgoing edges are the entries of a manifest's four dependency groups whose
// names are themselves internal packages. Nothing is precomputed, so a Graph
// is as cheap to create as the Index it wraps.
//
// Traversal is cycle safe but does not detect or report cycles. [Graph.Transitive]
// marks the starting package visited before expanding it, so for A -> B -> A
// the exclusive closure of A is {B}.
//
// [Graph.ToDOT] renders the internal graph in Graphviz DOT format and
// [RenderSVG] turns DOT into SVG with the embedded Graphviz runtime.
package graph
