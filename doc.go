// Package visitfacts builds the denormalized hospital visit fact table.
//
// A run fetches three delimited-text datasets (patients, hospital visits and
// doctors), left-joins the visits against both dimensions, coerces the visit
// timestamp and hands the result to one or more sinks:
//
//   - Fetching: share-link and local-file fetchers behind a FetcherChain
//   - Joining: ordered join enrichers, one per dimension table
//   - Transform: lenient timestamp coercion, unparseable values become null
//   - Loading: CSV file output, optionally a SQLite table
//
// Stages run strictly in order. Any stage failure aborts the run and no
// output is written.
package visitfacts
