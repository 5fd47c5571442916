// Package pricing resolves card requests against the catalog and reduces
// the results into the four run outputs: price list, inventory template,
// inventory value and buylist.
//
// Runs are sequential. Each request or set is looked up one at a time and
// the catalog client enforces the spacing between calls.
package pricing
