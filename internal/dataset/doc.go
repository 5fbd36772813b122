// Package dataset reads and writes MegaVul-style function records.
//
// A dataset is a JSON array (or a JSON-lines stream) of objects. Each object
// carries up to three function bodies:
//
//	func_before -> abstract_func_before, abstract_symbol_table_before
//	func        -> abstract_func,        abstract_symbol_table
//	func_after  -> abstract_func_after,  abstract_symbol_table_after
//
// Fields the package does not know about are passed through untouched, so a
// record can be abstracted and written back without losing metadata.
package dataset
