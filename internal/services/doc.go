// Package services implements the business logic layer of Sales Pulse.
// It sits between the HTTP handlers and the spreadsheet pipeline so that
// metrics, logging and error classification live in one place.
//
// # Available Services
//
//	- ReportService: processes one upload into a report and exports it
//	- HealthService: liveness, readiness and version information
//
// # Common Service Pattern
//
//	svc := services.NewReportService(processor, exporter, metrics, logger)
//	report, err := svc.Process(ctx, file, header.Filename)
//
// # Error Handling
//
// Errors from the pipeline are returned unchanged. Handlers map a
// *errors.SchemaError to 422 and a *errors.ParseError to 400.
//
// # Testing
//
// Services are tested by mocking their collaborators with testify/mock:
//
//	processor := new(MockReportProcessor)
//	processor.On("Process", mock.Anything, mock.Anything, "vendas.xlsx").Return(report, nil)
package services
