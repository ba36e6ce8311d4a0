package infra

import (
	"context"
	"net/http"
)

// Server is the API's http.Server with every timeout taken from
// configuration. Shutdown drains in-flight requests within the caller's
// deadline.
type Server struct {
	http *http.Server
}

func NewHTTPServer(cfg *Config, handler http.Handler) *Server {
	return &Server{http: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadHeaderTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}}
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
