// Package graph provides the chatflow graph model: typed nodes and
// directed edges compiled into an immutable, validated Graph.
//
// Build derives adjacency and reverse-adjacency structures in O(N+E) and
// runs a single all-or-nothing validation pass: start/end detection,
// DFS cycle discovery with path reporting, reachability from the start
// node, mandatory node kinds, and branch-ambiguity checks. The ordered
// error report is stable across builds of the same definition.
//
// A Kahn's-algorithm TopologicalOrder is provided for lint and preview
// tooling; turn execution lives in the engine package and does not use
// it, since branch decisions are made at run time.
package graph
