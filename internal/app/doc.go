// Package app wires the Sales Pulse HTTP service together: configuration,
// logging, telemetry, the report pipeline, middleware and routes.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, SALES_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Build the processor, exporter, report and health services
//	4. Set up middleware and routes
//	5. Create the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// # Graceful Shutdown
//
// Run serves until SIGINT or SIGTERM. In-flight requests are given the
// configured shutdown timeout to finish, then telemetry is flushed. No
// state survives a request, so nothing else needs to be saved.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The package never
// calls os.Exit, leaving the exit code to main.
package app
