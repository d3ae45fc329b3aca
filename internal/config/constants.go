package config

// Application constants
const (
	AppName = "salespulse"

	// DefaultMaxUploadBytes caps a single spreadsheet upload (32 MiB)
	DefaultMaxUploadBytes int64 = 32 << 20

	// DefaultFormField is the multipart field carrying the spreadsheet
	DefaultFormField = "file"
)
