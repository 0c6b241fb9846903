package checkpoint

type Key string

const (
	// CheckResultsKey stashes the payloads of every check approving an HTTP request.
	CheckResultsKey Key = "CheckResultsKey"

	// InputKey stashes the validated inputs of an HTTP request.
	InputKey Key = "InputKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled by checkpoint.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the session associated with an HTTP request.
	SessionKey Key = "SessionKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "checkpoint context key: " + string(k)
}
