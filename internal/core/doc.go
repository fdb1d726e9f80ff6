// Package core provides the business logic for price-list aggregation.
//
// This package is the heart of pricemachine, containing all domain logic
// independent of any console, HTTP or export layer. It can be used by the
// CLI, the web server, or tests without modification.
//
// # Architecture
//
// The package is organized around three steps, leaves first:
//
//   - Column classification: [Classify] maps a raw header string onto one of
//     the canonical fields (Name, Price, Weight) or [FieldDiscard].
//   - Table normalization: [ReadTable] parses one CSV file into a [RawTable],
//     and [Normalize] reduces it to the canonical columns.
//   - Aggregation: [LoadPrices] loads every matching file in a directory,
//     tags rows with their source file, derives the unit price, sorts and
//     ranks the result into a [PriceList].
//
// [Service] holds the current [PriceList] for long-lived callers (console
// loop, HTTP server) and replaces it wholesale on every load.
//
// # Error Handling
//
// Ingestion problems are per-file or per-row and never abort a load:
//
//   - [UnreadableFileError]: the file is skipped.
//   - [MissingFieldError]: every row of the file is excluded.
//   - [InvalidValueError]: the single row is excluded.
//
// All of them are recorded in [PriceList.Report]. Only a load that yields no
// usable row at all fails, with [ErrNoPrices]. A search without matches is an
// empty result, not an error.
//
// Technical errors are mapped to user-friendly messages using [MapError].
package core
