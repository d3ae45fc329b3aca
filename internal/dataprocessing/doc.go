// Package dataprocessing turns an uploaded sales spreadsheet into a Report.
//
// The work happens in three steps, all in the caller's goroutine:
//
//  1. Loader reads xlsx or csv bytes into an immutable domain.Table.
//  2. ValidateColumns checks the required header names.
//  3. Aggregate computes the global summary, per-unit client counts and
//     one view per salesperson.
//
// Processor chains the steps behind a single Process call and maps every
// failure to a SchemaError or a ParseError. Nothing is cached between calls.
//
//	p := dataprocessing.NewProcessor(logger, dataprocessing.ProcessorConfig{})
//	report, err := p.Process(ctx, file, "vendas.xlsx")
package dataprocessing
