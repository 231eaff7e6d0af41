package header

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mchmarny/brandnav/pkg/menu"
)

// Viewer headers set by the authenticating proxy in front of the service.
const (
	HeaderViewerID    = "X-Viewer-Id"
	HeaderViewerName  = "X-Viewer-Name"
	HeaderViewerRoles = "X-Viewer-Roles"
)

// HeaderForwardedURI carries the page path and query when a proxy renders
// the header on behalf of a page.
const HeaderForwardedURI = "X-Forwarded-Uri"

// QueryPage names the page whose trail the server marks.
const QueryPage = "page"

// ViewerFromRequest reads the viewer from the viewer headers.
func ViewerFromRequest(r *http.Request) Viewer {
	v := Viewer{
		ID:   strings.TrimSpace(r.Header.Get(HeaderViewerID)),
		Name: strings.TrimSpace(r.Header.Get(HeaderViewerName)),
	}
	if roles := r.Header.Get(HeaderViewerRoles); roles != "" {
		v.Roles = strings.Split(roles, ",")
	}
	return v
}

// requestFor maps an HTTP request to a header request. The path query
// parameter selects by exact href; otherwise the trail provider sees the
// page named by pageRequest.
func requestFor(r *http.Request) Request {
	return Request{
		Viewer:     ViewerFromRequest(r),
		HTTP:       pageRequest(r),
		ClientPath: r.URL.Query().Get("path"),
	}
}

// pageRequest returns a copy of r addressed to the page being rendered. The
// page comes from the page query parameter, the X-Forwarded-Uri header or
// the Referer, in that order. Only its path and query are kept. Without a
// usable page r is returned as is.
func pageRequest(r *http.Request) *http.Request {
	target := r.URL.Query().Get(QueryPage)
	if target == "" {
		target = r.Header.Get(HeaderForwardedURI)
	}
	if target == "" {
		target = r.Referer()
	}
	if target == "" {
		return r
	}

	u, err := url.Parse(target)
	if err != nil {
		slog.Debug("ignoring unparsable page target", "target", target, "error", err)
		return r
	}

	pr := r.Clone(r.Context())
	pr.URL = &url.URL{Path: u.Path, RawPath: u.RawPath, RawQuery: u.RawQuery}
	pr.RequestURI = pr.URL.RequestURI()
	return pr
}

// Routes registers the header API on r.
func (s *Service) Routes(r chi.Router) {
	r.Get("/api/header", s.handleProps)
	r.Get("/api/menus/{name}", s.handleMenu)
	r.Get("/api/menus/{name}/tree", s.handleTree)
}

func (s *Service) handleProps(w http.ResponseWriter, r *http.Request) {
	props, err := s.Props(r.Context(), requestFor(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (s *Service) handleMenu(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	m, err := s.menus.Load(WithViewer(r.Context(), ViewerFromRequest(r)), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	m.Handler().ServeHTTP(w, r)
}

func (s *Service) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.Tree(r.Context(), chi.URLParam(r, "name"), requestFor(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "error, see logs for details"
	if errors.Is(err, menu.ErrNotFound) {
		status = http.StatusNotFound
		message = "menu not found"
	}

	s.logger.Error("handling error response",
		"status", status,
		"error", err,
	)

	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
