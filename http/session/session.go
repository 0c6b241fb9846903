package session

import (
	"fmt"
	"net/http"

	gorilla "github.com/gorilla/sessions"
	"github.com/xy-planning-network/checkpoint"
)

// principalKey is the session value naming who the session authenticates.
const principalKey = "checkpoint-principal"

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	ResetExpiry(w http.ResponseWriter, r *http.Request) error
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// The PrincipalSessionable wraps methods for adding, removing, and retrieving
// the principal a session authenticates.
type PrincipalSessionable interface {
	DeregisterPrincipal(w http.ResponseWriter, r *http.Request) error
	Principal() (string, error)
	RegisterPrincipal(w http.ResponseWriter, r *http.Request, id string) error
}

// A Session provides all functionality for managing a session.
//
// Its functionality is implemented by lightly wrapping a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

var (
	_ Sessionable          = Session{}
	_ PrincipalSessionable = Session{}
)

// NewSession constructs a Session from a *gorilla.Session.
func NewSession(g *gorilla.Session) Session { return Session{s: g} }

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// DeregisterPrincipal removes the principal from the session.
func (s Session) DeregisterPrincipal(w http.ResponseWriter, r *http.Request) error {
	delete(s.s.Values, principalKey)
	return s.Save(w, r)
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	return s.s.Values[key]
}

// Principal gets the principal out of the session.
// If none is set, ErrNoPrincipal is returned.
//
// If the value stored is not a string, ErrNotValid is returned and represents a programming error.
func (s Session) Principal() (string, error) {
	val, ok := s.s.Values[principalKey]
	if !ok {
		return "", ErrNoPrincipal
	}

	id, ok := val.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: principal is %T", checkpoint.ErrNotValid, val)
	}

	return id, nil
}

// RegisterPrincipal stores id as the principal the session authenticates.
func (s Session) RegisterPrincipal(w http.ResponseWriter, r *http.Request, id string) error {
	s.s.Values[principalKey] = id
	return s.Save(w, r)
}

// ResetExpiry resets the expiration of the session by saving it.
func (s Session) ResetExpiry(w http.ResponseWriter, r *http.Request) error {
	return s.Save(w, r)
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}
