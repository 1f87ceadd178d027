package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields carried on the request-scoped logger.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldFilename is the sanitized name of the stored file
	FieldFilename = "filename"

	// FieldImageURL is the public URL a client asked to recaption
	FieldImageURL = "image_url"
)

// Metric fields attached per entry for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation or HTTP status
	FieldStatus = "status"

	// FieldErrorKind is the classified kind of a failure
	FieldErrorKind = "error_kind"
)
