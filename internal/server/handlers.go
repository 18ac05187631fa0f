package server

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/phallocators/allocviz/pkg/buildinfo"
	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
	"github.com/phallocators/allocviz/pkg/pipeline"
)

// Response headers.
const (
	HeaderRenderID = "X-Render-ID"
	HeaderCache    = "X-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := model.ParseKind(q.Get("kind"))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidKind, err, "kind"))
		return
	}
	format := queryDefault(q.Get("format"), pipeline.FormatSVG)
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	scale, err := parseScale(q.Get("scale"))
	if err != nil {
		writeError(w, err)
		return
	}
	transparent, err := parseBool("transparent", q.Get("transparent"))
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	layouts := s.layouts
	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:       body,
		Kind:        kind,
		Layouts:     &layouts,
		Formats:     []string{format},
		Scale:       scale,
		Title:       q.Get("title"),
		Transparent: transparent,
		Logger:      s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeArtifact(w, format, res.Artifacts[format], res.CacheInfo.RenderHit)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := queryDefault(q.Get("format"), pipeline.FormatSVG)
	if err := pipeline.ValidateGraphFormat(format); err != nil {
		writeError(w, err)
		return
	}
	colored, err := parseBool("colored", q.Get("colored"))
	if err != nil {
		writeError(w, err)
		return
	}
	scale, err := parseScale(q.Get("scale"))
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	layouts := s.layouts
	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:        body,
		Kind:         model.KindLinkedList,
		Layouts:      &layouts,
		Scale:        scale,
		GraphOnly:    true,
		GraphFormats: []string{format},
		GraphColored: colored,
		Logger:       s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeArtifact(w, format, res.Artifacts[pipeline.GraphArtifact(format)], res.CacheInfo.GraphHit)
}

func (s *Server) writeArtifact(w http.ResponseWriter, format string, data []byte, cached bool) {
	id := uuid.NewString()
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set(HeaderRenderID, id)
	if cached {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("write response failed", "render_id", id, "error", err)
	}
}

// readBody reads a JSON request body. A missing Content-Type is accepted.
func readBody(r *http.Request) ([]byte, error) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return nil, errors.New(errors.ErrCodeUnsupported, "content type %q is not application/json", ct)
		}
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	return body, nil
}

func parseScale(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "scale must be a positive number, got %q", v)
	}
	return f, nil
}

func parseBool(name, v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidConfig, "%s must be a boolean, got %q", name, v)
	}
	return b, nil
}

func queryDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
