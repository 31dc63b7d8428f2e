// Package httpapi exposes the engine over HTTP: upload an image plus an
// edit script, get back a stored export id, fetch the JPEG by id.
package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/example/snapedit/internal/adjust"
	"github.com/example/snapedit/internal/config"
	"github.com/example/snapedit/internal/editor"
	"github.com/example/snapedit/internal/script"
	"github.com/example/snapedit/internal/store"
)

// Upload limit for the multipart render request.
const maxUploadBytes = 32 << 20

// Server carries the handler dependencies.
type Server struct {
	cfg   config.Config
	store store.ExportStore
	log   logrus.FieldLogger
}

// New builds a server over the given export store.
func New(cfg config.Config, st store.ExportStore, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{cfg: cfg, store: st, log: log}
}

// Router assembles the chi routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Post("/render", s.handleRender)
		r.Get("/exports/{id}", s.handleExport)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

type presetResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Adjustments map[string]int `json:"adjustments"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets := adjust.Presets()
	out := make([]presetResponse, 0, len(presets))
	for _, p := range presets {
		out = append(out, presetResponse{
			ID:   p.ID,
			Name: p.Name,
			Adjustments: map[string]int{
				"brightness": p.Vector.Brightness,
				"contrast":   p.Vector.Contrast,
				"saturation": p.Vector.Saturation,
				"exposure":   p.Vector.Exposure,
			},
		})
	}
	render.JSON(w, r, out)
}

type renderResponse struct {
	ID    string `json:"id"`
	Bytes int    `json:"bytes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

// handleRender accepts a multipart form with an "image" file and an
// optional "script" part (file or value), replays the script and stores the
// export.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		badRequest(w, r, fmt.Errorf("image part is required: %w", err))
		return
	}
	defer file.Close()
	imageData, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, r, fmt.Errorf("read image: %w", err))
		return
	}

	scriptData, err := s.scriptPart(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	sc, err := script.Parse(scriptData)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	sess, err := editor.NewFromBytes(imageData, editor.WithConfig(s.cfg), editor.WithLogger(s.log))
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if err := sc.Apply(sess); err != nil {
		badRequest(w, r, err)
		return
	}

	data, err := sess.Export(r.Context())
	if err != nil {
		s.log.WithError(err).Error("render failed")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: "render failed"})
		return
	}

	exp, err := s.store.Create(r.Context(), data)
	if err != nil {
		s.log.WithError(err).Error("store export failed")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: "store failed"})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, renderResponse{ID: exp.ID, Bytes: len(exp.Data)})
}

// scriptPart reads the optional script from the form, preferring an
// uploaded file over an inline value. Absent means the empty script.
func (s *Server) scriptPart(r *http.Request) ([]byte, error) {
	if file, _, err := r.FormFile("script"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		return data, nil
	}
	return []byte(r.FormValue("script")), nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	exp, err := s.store.FindID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, errorResponse{Error: "export not found"})
			return
		}
		s.log.WithError(err).Error("export lookup failed")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: "lookup failed"})
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", fmt.Sprint(len(exp.Data)))
	if _, err := w.Write(exp.Data); err != nil {
		s.log.WithError(err).Warn("export write interrupted")
	}
}
