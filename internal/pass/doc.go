// Package pass runs checks and rewrites over lowered IR modules.
//
// A Manager applies its passes in order to every module registered in a
// symbol table. Passes run single-threaded and only after all modules are
// registered, so cross-module references have had every chance to resolve.
package pass
