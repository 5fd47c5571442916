// Package catalog provides the Scryfall client used to look up printings
// and prices.
//
// REST endpoints:
//   - GET /cards/search?q=!"name" set:xxx&unique=prints&order=released
//   - GET /cards/{set}/{number}
//   - GET /cards/search?q=set:xxx&unique=prints&order=set (paginated)
//
// Every outbound call, including retries and pagination, waits on a shared
// rate limiter so consecutive calls are at least the configured minimum
// delay apart.
package catalog
