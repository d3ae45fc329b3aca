// Package config loads the service configuration.
//
// Values are resolved in three layers, later layers winning:
//
//	1. Default()
//	2. a YAML file (SALES_CONFIG_FILE, or config.yaml / configs/config.yaml)
//	3. SALES_* environment variables, e.g. SALES_SERVER_PORT=9090,
//	   SALES_UPLOAD_MAX_BYTES=1048576, SALES_LOGGING_LEVEL=debug
//
// The merged result is validated with struct tags before it is returned.
package config
