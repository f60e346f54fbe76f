// Package ast holds the program shape the external parser hands to lowering.
//
// The parser runs out of process and serializes a Program as JSON or
// MessagePack; Decode and LoadFile read it back, normalize identifiers and
// reject trees with missing payloads so lowering only ever sees a complete
// program.
package ast
