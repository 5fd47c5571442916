// Package formats registers every supported card-list grammar with the core
// registry. Import this package to ensure all formats are registered.
package formats

// This file exists to provide a single import point.
// Each format file uses init() to register its grammar.

// Detection priorities, most specific first.
const (
	priorityMoxfield   = 10
	priorityArchidekt  = 20
	priorityDeckExport = 30
	priorityGenericCSV = 40
	priorityStandard   = 100
)
