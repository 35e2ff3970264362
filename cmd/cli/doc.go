// Package cli constructs the harvest command-line interface. It wires the
// Cobra command hierarchy for every harvesting step, loads layered
// configuration through Viper, builds the structured logger, and tags each
// invocation with a run identifier.
package cli
