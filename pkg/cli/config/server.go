package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	controller "github.com/secmon-lab/defectlens/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr           string
	ComputeTimeout time.Duration
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("DEFECTLENS_ADDR"),
			Destination: &s.Addr,
		},
		&cli.DurationFlag{
			Name:        "compute-timeout",
			Usage:       "Deadline of one analytics request",
			Value:       controller.DefaultComputeTimeout,
			Sources:     cli.EnvVars("DEFECTLENS_COMPUTE_TIMEOUT"),
			Destination: &s.ComputeTimeout,
		},
	}
}

// Validate validates the server configuration
func (s *Server) Validate() error {
	if s.Addr == "" {
		return goerr.New("server address is empty")
	}
	if s.ComputeTimeout <= 0 {
		return goerr.New("compute timeout must be positive", goerr.V("timeout", s.ComputeTimeout))
	}
	return nil
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Duration("compute_timeout", s.ComputeTimeout),
	)
}
