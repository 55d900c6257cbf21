// Package engine turns an uploaded dataset into a uniform table and
// computes descriptive statistics over it.
//
// This package holds the whole analysis pipeline and has no transport or
// storage dependencies. Web handlers, the batch CLI and tests all call it
// the same way.
//
// # Pipeline
//
//  1. The caller picks a [Hint] (usually via [HintForFile]).
//  2. [Ingest] parses the payload into a [Table] with one of
//     [ParseDelimitedText], [ParseStructuredRecords] or [ParseSpreadsheet].
//  3. [ComputeAnalysis] derives an [AnalysisSummary] from the table.
//
// Ingestion is all-or-nothing: it either returns both the table and the
// summary or a [*ParseError].
//
// # Known quirks
//
// Several behaviors are preserved on purpose and covered by tests:
//
//   - Delimited parsing strips every double quote and does not understand
//     escaped quotes or delimiters inside quoted fields.
//   - A delimited line shorter than the header yields a row with missing
//     trailing cells instead of an error.
//   - Structured records take their columns from the first record only.
//   - A column counts as numeric if any single cell in it is a number.
//   - The median of an even-sized sample is the element at index n/2 of the
//     sorted values (the upper of the two middle elements), not their mean.
package engine
