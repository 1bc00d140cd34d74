package interceptors

// Header and metadata keys shared by the HTTP and gRPC surfaces. gRPC
// metadata keys are lower case, HTTP header lookup is case-insensitive.
const (
	HeaderRequestID = "x-request-id"
	// HeaderIdempotencyKey is the IETF draft spelling; the x- prefixed form
	// is accepted as a fallback.
	HeaderIdempotencyKey  = "idempotency-key"
	HeaderXIdempotencyKey = "x-idempotency-key"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	idempotencyKeyKey
)
