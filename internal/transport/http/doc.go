// Package http implements the HTTP handlers of the Sales Pulse service.
// Handlers are a thin layer between HTTP transport and the report service:
// they parse and validate the multipart upload, call the service and render
// the result.
//
// # Routes
//
//	POST /api/reports                 upload a spreadsheet, get the dashboard JSON
//	POST /api/reports/export?format=  upload a spreadsheet, download a summary file
//	GET  /api/health                  overall health
//	GET  /api/health/live             liveness probe
//	GET  /api/health/ready            readiness probe
//	GET  /api/version                 build information
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → ReportService → Processor
//	                                            ↓
//	HTTP Response ← Handler ← Report ←──────────┘
//
// Each upload is processed synchronously in the request goroutine and
// nothing is kept once the response has been written.
//
// # Error Handling
//
// All errors are rendered as RFC 7807 problem details by the shared error
// handler:
//
//	{
//	    "type": "/errors/spreadsheet/schema",
//	    "title": "Missing Required Columns",
//	    "status": 422,
//	    "detail": "the spreadsheet must contain the following required columns: ...",
//	    "instance": "/api/reports",
//	    "missing_columns": ["Valor_Mensal"]
//	}
//
// A request without the file field is answered with a 400 missing-file
// problem and nothing is loaded.
package http
