package middleware

// Locals keys shared between handlers and middleware.
const (
	// DETAIL carries the success payload picked up by the unified response middleware.
	DETAIL = "detail"
	// OPERATION marks a handler that succeeded without payload.
	OPERATION = "operation"
	// CLAIMS carries the parsed auth claims of the current request.
	CLAIMS = "claims"
)
