package relay

import (
	stdcontext "context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"

	"prismview.dev/pkg/version"
)

// StatusBody is the status API document: role assignments and relay
// counters.
type StatusBody struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	State          string `json:"state"`
	Visualization  string `json:"visualization,omitempty"`
	Prism          string `json:"prism,omitempty"`
	Spectators     int    `json:"spectators"`
	Forwarded      int64  `json:"forwarded"`
	ForwardedBytes int64  `json:"forwarded_bytes"`
	Dropped        int64  `json:"dropped"`
	Uptime         string `json:"uptime"`
}

type StatusOutput struct {
	Body StatusBody
}

type HealthBody struct {
	OK bool `json:"ok"`
}

type HealthOutput struct {
	Body HealthBody
}

// registerAPI mounts the status endpoints on the relay mux.
func (s *Server) registerAPI() {
	api := humachi.New(
		s.mux.Router, huma.DefaultConfig("prismview relay", version.V),
	)
	huma.Register(
		api, huma.Operation{
			OperationID: "get-status",
			Method:      http.MethodGet,
			Path:        "/api/status",
			Summary:     "Current role assignments and relay counters",
		}, s.getStatus,
	)
	huma.Register(
		api, huma.Operation{
			OperationID: "get-healthz",
			Method:      http.MethodGet,
			Path:        "/api/healthz",
			Summary:     "Liveness probe",
		}, s.getHealthz,
	)
}

func (s *Server) getStatus(
	ctx stdcontext.Context, input *struct{},
) (out *StatusOutput, err error) {
	snap := s.roles.Snapshot()
	out = &StatusOutput{
		Body: StatusBody{
			Name:           s.C.AppName,
			Version:        version.V,
			State:          snap.State.String(),
			Visualization:  snap.Visualization,
			Prism:          snap.Prism,
			Spectators:     snap.Spectators,
			Forwarded:      snap.Forwarded,
			ForwardedBytes: snap.ForwardedBytes,
			Dropped:        snap.Dropped,
			Uptime:         time.Since(s.started).Round(time.Second).String(),
		},
	}
	return
}

func (s *Server) getHealthz(
	ctx stdcontext.Context, input *struct{},
) (out *HealthOutput, err error) {
	out = &HealthOutput{Body: HealthBody{OK: true}}
	return
}
