package domain

import "errors"

var (
	// ErrWebhookNotFound is returned when a project webhook token does not
	// match any active endpoint
	ErrWebhookNotFound = errors.New("webhook not found")

	// ErrIPNotAllowed is returned when the caller's IP is not on the
	// endpoint's allowlist
	ErrIPNotAllowed = errors.New("ip address not allowed")

	// ErrMethodNotAllowed is returned when the HTTP method is not on the
	// endpoint's allowlist
	ErrMethodNotAllowed = errors.New("http method not allowed")

	// ErrInvalidSignature is returned when a provider webhook signature
	// fails HMAC verification
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrMalformedPayload is returned when a delivery body cannot be decoded
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrMissingCredential is returned when no repository access credential
	// is resolvable for the project owner
	ErrMissingCredential = errors.New("no repository credential available")

	// ErrProjectNotFound is returned when no project matches a repository
	ErrProjectNotFound = errors.New("project not found")

	// ErrJobNotFound is returned when a callback references an unknown job
	ErrJobNotFound = errors.New("job not found")
)

// PermissionDeniedError is raised when a resolved action is not granted by
// the endpoint's permission map. Processing aborts with a terminal failed
// status and no job is created.
type PermissionDeniedError struct {
	Action string
}

func (e *PermissionDeniedError) Error() string {
	return "Permission denied for action: " + e.Action
}
