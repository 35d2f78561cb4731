// Package factory provides a generic registry that builds pluggable modules,
// such as metrics sinks, from their configured type name.
package factory
