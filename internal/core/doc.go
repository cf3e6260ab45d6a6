// Package core compares two PDF documents and reports the data they share.
//
// This package holds the comparison logic independent of any UI or
// transport. It is used by the web handlers and the pdfcompare CLI.
//
// # Comparison
//
// [Comparer.Compare] extracts tables from both documents. When both yield a
// table, columns are paired by fuzzy name similarity and the tables are
// inner-joined on the first pair (or on all pairs in composite mode). When
// either document yields no table, every text line of both documents is
// extracted, deduplicated and fuzzily matched; the common lines are turned
// back into a table when a header line is recognised.
//
// Every comparison ends in one [Outcome]:
//
//   - [OutcomeSuccess]: a table to download
//   - [OutcomeMissingInput]: a document was absent or empty
//   - [OutcomeNoMatchingColumns]: both documents had tables, no column pair
//   - [OutcomeNoMatchingRows]: a column pair, but no shared key value
//   - [OutcomeNoCommonText]: no line of A resembles a line of B
//
// # Service
//
// [Service] wraps a Comparer with a concurrency limit, pdfcpu inspection of
// the inputs and an in-memory result store with a TTL, swept by
// [Service.StartResultSweeper].
//
// # Error Handling
//
// Technical errors and outcomes are mapped to user-friendly messages with
// [MapError] and [OutcomeMessage]. Each category has a code for support
// reference:
//
//   - IN001-IN003: input errors (missing, not a PDF, too large)
//   - CMP001-CMP005: comparison outcomes and service state
//   - UPL004-UPL005: cancelled or timed out requests
//   - RATE001: rate limiting
package core
