package checkpoint

// Enumerable is the interface implemented by types that can only be represented by enumerable, constant values.
//
// Values decoded from configuration, such as a manifest of routes,
// ought to be checked with Valid before being used.
type Enumerable interface {
	String() string
	Valid() error
}
