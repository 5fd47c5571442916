// Package core holds the card-list domain shared by the CLI and the server.
//
// # Formats
//
// Each list grammar registers a [FormatDefinition] at init time (see the
// formats subpackage). [Select] walks the registry in priority order and
// returns the first grammar whose detector claims the content:
//
//  1. Moxfield CSV     header has "tradelist count" and "collector number"
//  2. Archidekt CSV    header has "card name" and "edition"
//  3. Deck export text "4x Name (SET) ..." on the first content line
//  4. Generic CSV      first header column is count/quantity/qty/amount
//  5. Standard text    pipe-delimited, claims everything
//
// Selection is total: the standard grammar is the fallback, so unrecognized
// content parses to zero requests instead of failing.
//
// # Prices
//
// Prices are [Price] values (shopspring decimal, nullable). An unknown price
// is never treated as zero; [FormatPrice] renders it as "N/A".
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Codes: FILE001-FILE004, PARSE001-PARSE003, CAT001-CAT003, REQ001-REQ003,
// RATE001, and ERR000 for anything unrecognized.
package core
