package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/multiverse/cache"
	"github.com/briangreenhill/multiverse/internal/catalog"
	appmw "github.com/briangreenhill/multiverse/internal/http/middleware"
	"github.com/briangreenhill/multiverse/pkg/rickmorty"
)

type Server struct {
	Router  *chi.Mux
	Catalog *catalog.Catalog
}

type ServerOptions struct {
	Catalog *catalog.Catalog
	Logger  zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(appmw.Logging(opts.Logger))
	r.Use(chimw.Recoverer)

	s := &Server{Router: r, Catalog: opts.Catalog}
	chars, locs := opts.Catalog.Characters, opts.Catalog.Locations

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Route("/personajes", func(r chi.Router) {
		r.Get("/pagina/{pagina}", pageHandler(chars))
		r.Get("/estado/{estado}", filterHandler("estado", s.Catalog.CharactersByStatus))
		r.Get("/genero/{genero}", filterHandler("genero", s.Catalog.CharactersByGender))
		r.Get("/{id}", getHandler(chars))
		r.Delete("/{id}", deleteHandler(chars))
	})

	r.Route("/ubicaciones", func(r chi.Router) {
		r.Get("/pagina/{pagina}", pageHandler(locs))
		r.Get("/tipo/{tipo}", filterHandler("tipo", s.Catalog.LocationsByType))
		r.Get("/dimension/{dimension}", filterHandler("dimension", s.Catalog.LocationsByDimension))
		r.Get("/{id}", getHandler(locs))
		r.Delete("/{id}", deleteHandler(locs))
	})

	return s
}

func pageHandler[R cache.Record](svc *catalog.Service[R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "pagina")
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid page %q", raw))
			return
		}
		names, err := svc.Page(r.Context(), page)
		if err != nil {
			writeUpstreamError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, names)
	}
}

func getHandler[R cache.Record](svc *catalog.Service[R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeUpstreamError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, rec)
	}
}

func filterHandler[R cache.Record](param string, filter func(string) []R) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, filter(chi.URLParam(r, param)))
	}
}

func deleteHandler[R cache.Record](svc *catalog.Service[R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, svc.Delete(chi.URLParam(r, "id")))
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	status := upstreamStatus(err)
	hlog.FromRequest(r).Error().Err(err).Int("status", status).Msg("upstream call failed")
	writeJSON(w, r, status, map[string]string{"error": upstreamMessage(err, status)})
}

// upstreamMessage keeps upstream bodies and internal paths out of responses;
// the full error is in the log line.
func upstreamMessage(err error, status int) string {
	var se *rickmorty.StatusError
	if errors.As(err, &se) {
		return "upstream returned " + se.Status
	}
	if status == http.StatusGatewayTimeout {
		return "upstream timed out"
	}
	return "upstream request failed"
}

// upstreamStatus maps a catalog error to the status the caller sees.
func upstreamStatus(err error) int {
	var se *rickmorty.StatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
