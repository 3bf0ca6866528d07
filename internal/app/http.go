package app

import (
	"context"
	"net/http"

	"courier/pkg/api"
	"courier/pkg/config"
	"courier/pkg/security"
	"courier/pkg/telemetry"
)

// httpServer is the slice of *http.Server the app depends on.
type httpServer interface {
	Shutdown(ctx context.Context) error
}

// startHTTP wires the API router behind the security and telemetry
// middleware, starts the listener and returns its error channel.
func (a *App) startHTTP() <-chan error {
	handler := api.New(a.engine, a.db, a.prog).Router()

	secCfg := security.SecConfig{
		AllowedOrigins: append([]string{}, a.opts.Config.Security.CORS.AllowedOrigins...),
		RPS:            a.opts.Config.Security.RateLimit.RPS,
		Burst:          a.opts.Config.Security.RateLimit.Burst,
		APIKeys:        config.APIKeys(),
		AllowUnauth:    a.opts.Config.Security.APIKeys.AllowUnauth,
	}
	wrapped := security.AuthenticateRequestMiddleware(secCfg)(handler)
	wrapped = telemetry.Middleware(wrapped)

	srv := &http.Server{Addr: a.opts.Addr, Handler: wrapped}
	a.srv = srv

	errCh := make(chan error, 1)
	go func() {
		cert := a.opts.Config.Server.TLS.CertFile
		key := a.opts.Config.Server.TLS.KeyFile
		if cert != "" && key != "" {
			errCh <- srv.ListenAndServeTLS(cert, key)
		} else {
			errCh <- srv.ListenAndServe()
		}
	}()
	return errCh
}
