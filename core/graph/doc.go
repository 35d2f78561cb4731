// Package graph builds the dependency graph of a task set. Edges run from a
// dependency to the task that waits on it. References to tasks outside the
// set are dropped from the graph and reported through Dangling. Cycles are
// errors: TopoSort fails with a CycleError naming the task where the cycle
// was entered.
package graph
