package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scholarlab/citelens/internal/citations"
	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/internal/resolve"
	"github.com/scholarlab/citelens/internal/sector"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the citation analytics HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng := newEngine(cfg)

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(eng),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("server listening", zap.Int("port", port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutCtx); err != nil {
				return eris.Wrap(err, "server shutdown")
			}
			return nil
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return eris.Wrap(err, "server")
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the API router. Every endpoint is a JSON GET and always
// returns a well-formed body; an unresolvable paper yields empty series
// and zero counts rather than an error.
func newRouter(eng *engine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/resolve", func(w http.ResponseWriter, req *http.Request) {
		q := queryFromRequest(req)
		identity, err := eng.Resolver.Resolve(req.Context(), q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"doi": nil, "error": err.Error()})
			return
		}
		if identity == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"doi": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"doi": identity.DOI, "via": identity.Provider})
	})

	r.Get("/api/citations", func(w http.ResponseWriter, req *http.Request) {
		q := queryFromRequest(req)
		opts := citations.Options{
			IncludeAffiliations: req.URL.Query().Get("affiliations") != "",
		}
		result, err := eng.Aggregator.Aggregate(req.Context(), q, opts)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Get("/api/sector", func(w http.ResponseWriter, req *http.Request) {
		q := queryFromRequest(req)
		s, workRef, err := eng.Sector.ClassifyQuery(req.Context(), q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"sector": sector.Unknown, "error": err.Error()})
			return
		}
		out := map[string]any{"sector": s}
		if workRef != "" {
			out["work_ref"] = workRef
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/api/affiliations", func(w http.ResponseWriter, req *http.Request) {
		q := queryFromRequest(req)
		counts := eng.Aggregator.AffiliationCounts(req.Context(), q, sector.Full)
		writeJSON(w, http.StatusOK, map[string]any{"counts": counts, "total": counts.Total()})
	})

	return r
}

// queryFromRequest builds a PaperQuery from request query parameters,
// extracting identifiers from the free-form identifier parameter when no
// explicit DOI or arXiv id was given.
func queryFromRequest(req *http.Request) model.PaperQuery {
	params := req.URL.Query()
	q := model.PaperQuery{
		DOI:     params.Get("doi"),
		ArXiv:   params.Get("arxivId"),
		Title:   params.Get("title"),
		Authors: params.Get("authors"),
		Year:    params.Get("year"),
	}
	if id := params.Get("identifier"); id != "" && q.DOI == "" && q.ArXiv == "" {
		q.DOI, q.ArXiv = resolve.ParseIdentifier(id)
	}
	return q
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}
