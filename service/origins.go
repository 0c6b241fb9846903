package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
	"github.com/xy-planning-network/checkpoint/http/req"
	"github.com/xy-planning-network/checkpoint/http/resp"
)

// OriginsPath is where the CORS allow-list is read and replaced,
// when WithOriginsAdmin enables it.
const OriginsPath = "/origins"

// An OriginsBody lists the origins CORS admits.
type OriginsBody struct {
	Origins []string `json:"origins" validate:"dive,url"`
}

// WithOriginsAdmin serves the CORS allow-list at OriginsPath:
// GET lists it and PUT replaces it with an OriginsBody.
// Both apply checks first; at least one is required.
func WithOriginsAdmin(checks ...check.Check) ServiceOpt {
	return func(s *Service) {
		s.adminChecks = append([]check.Check{}, checks...)
	}
}

// originsEndpoints constructs the endpoints WithOriginsAdmin enables.
func (s *Service) originsEndpoints() ([]endpoint.Endpoint, error) {
	if s.adminChecks == nil {
		return nil, nil
	}

	if len(s.adminChecks) == 0 {
		return nil, fmt.Errorf("%w: serving %s requires a check", checkpoint.ErrBadConfig, OriginsPath)
	}

	body := req.Group{Context: req.Body, Properties: []req.Property{{Name: "origins", Type: req.Object}}}
	return []endpoint.Endpoint{
		endpoint.Get(OriginsPath, http.HandlerFunc(s.listOrigins)).WithChecks(s.adminChecks...),
		endpoint.Put(OriginsPath, http.HandlerFunc(s.setOrigins), body).WithChecks(s.adminChecks...),
	}, nil
}

func (s *Service) listOrigins(w http.ResponseWriter, r *http.Request) {
	s.rp.Json(w, r, resp.Data(OriginsBody{Origins: s.origins.List()}))
}

func (s *Service) setOrigins(w http.ResponseWriter, r *http.Request) {
	var body OriginsBody
	if err := s.parser.DecodeRequest(r, req.Body, &body); err != nil {
		var invalid req.ValidationErrors
		if errors.As(err, &invalid) {
			s.rp.Json(w, r, resp.Code(http.StatusBadRequest), resp.Data(invalid))
			return
		}

		if errors.Is(err, checkpoint.ErrBadFormat) {
			s.rp.Json(w, r, resp.Fail(http.StatusBadRequest, "origins must be a list of URLs"))
			return
		}

		s.rp.Err(w, r, err)
		return
	}

	s.origins.Set(body.Origins...)
	s.l.Info(fmt.Sprintf("allowed origins set to %v", s.origins.List()), nil)
	s.rp.Json(w, r, resp.Data(OriginsBody{Origins: s.origins.List()}))
}
