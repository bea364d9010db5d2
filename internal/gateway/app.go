package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ClimaStore/internal/visitor"
	"ClimaStore/pkg/kit"
)

type Deps struct {
	CatalogURL string
	QuoteURL   string

	VisitorSecret string
	VisitorTTL    time.Duration
	SecureCookie  bool
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond

	defaultVisitorTTL = 365 * 24 * time.Hour
)

var errEmptySecret = errors.New("visitor secret is empty")

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
}

func NewHandler(deps Deps, httpDeps kit.HTTPDeps) (http.Handler, error) {
	if deps.VisitorSecret == "" {
		return nil, errEmptySecret
	}
	if deps.VisitorTTL <= 0 {
		deps.VisitorTTL = defaultVisitorTTL
	}

	catalogProxy, err := NewReverseProxy(deps.CatalogURL, httpDeps.Log)
	if err != nil {
		return nil, err
	}
	quoteProxy, err := NewReverseProxy(deps.QuoteURL, httpDeps.Log)
	if err != nil {
		return nil, err
	}

	tm := visitor.NewTokenMaker(deps.VisitorSecret)

	r := kit.NewRouter(httpDeps)

	r.Get("/healthz", kit.Healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Group(func(vr chi.Router) {
		vr.Use(visitor.Ensure(tm, deps.VisitorTTL, deps.SecureCookie, httpDeps.Log))

		for _, p := range []string{
			"/products", "/products/*",
			"/categories", "/brands", "/search/*",
			"/comparison", "/comparison/*",
			"/calculators/*",
			"/blog", "/blog/*", "/faq", "/contacts",
		} {
			vr.Handle(p, catalogProxy)
		}

		vr.Handle("/quotes", quoteProxy)
		vr.Handle("/quotes/*", quoteProxy)
		vr.Handle("/consultations", quoteProxy)
	})

	return r, nil
}

// readyz probes every upstream concurrently and fails on the first one
// that is not ready.
func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	upstreams := []struct{ name, url string }{
		{"catalog", deps.CatalogURL},
		{"quote", deps.QuoteURL},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		for _, u := range upstreams {
			g.Go(func() error {
				if err := checkReady(gctx, u.url+"/readyz"); err != nil {
					return &upstreamError{name: u.name, err: err}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			name := "upstream"
			var ue *upstreamError
			if errors.As(err, &ue) {
				name = ue.name
			}
			if log != nil {
				log.Warn("readyz failed: "+name, zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, name+" not ready", nil)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

type upstreamError struct {
	name string
	err  error
}

func (e *upstreamError) Error() string { return e.name + ": " + e.err.Error() }
func (e *upstreamError) Unwrap() error { return e.err }

func checkReady(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}

	return nil
}
