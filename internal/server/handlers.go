package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/wcatz/widget-layout/internal/config"
	"github.com/wcatz/widget-layout/internal/layout"
	"github.com/wcatz/widget-layout/internal/render"
	"github.com/wcatz/widget-layout/internal/session"
)

const maxBodyBytes = 1 << 20

// stateResponse is the session view plus header links resolved against
// the requesting origin.
type stateResponse struct {
	session.View
	Links map[string]render.Link `json:"links,omitempty"`
}

// Read model

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, r)
}

func (s *Server) writeState(w http.ResponseWriter, r *http.Request) {
	v, err := s.session.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := stateResponse{View: v}
	origin := requestOrigin(r)
	for _, t := range v.Tiles {
		if t.HeaderLink == nil || t.HeaderLink.Href == "" || t.HeaderLink.Title == "" {
			continue
		}
		if resp.Links == nil {
			resp.Links = make(map[string]render.Link)
		}
		resp.Links[t.Item.ID] = render.ResolveHeaderLink(t.HeaderLink.Href, origin)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDrawerSearch(w http.ResponseWriter, r *http.Request) {
	entries, err := s.session.Drawer(r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []session.DrawerEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleTemplateGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.session.Template()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	v, err := s.session.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	var opts render.Options
	if cw := r.URL.Query().Get("cell"); cw != "" {
		n, err := strconv.Atoi(cw)
		if err != nil {
			http.Error(w, "invalid cell width", http.StatusBadRequest)
			return
		}
		opts.CellWidth = n
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, render.Grid(v, opts)+"\n")
}

// Grid events

func (s *Server) handleWidth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width float64 `json:"width"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.widths.Publish(req.Width)
	s.writeState(w, r)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []layout.Item `json:"items"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := layout.ValidateItems(req.Items); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.apply(w, r, s.session.LayoutChange(req.Items))
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WidgetType string `json:"widgetType"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.WidgetType == "" {
		s.apply(w, r, s.session.DragLeave())
		return
	}
	s.apply(w, r, s.session.DragEnter(req.WidgetType))
}

func (s *Server) handleTileDrag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"i"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.apply(w, r, s.session.TileDragStart(req.ID))
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WidgetType string `json:"widgetType"`
		X          int    `json:"x"`
		Y          int    `json:"y"`
		W          int    `json:"w"`
		H          int    `json:"h"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.WidgetType == "" {
		http.Error(w, "widgetType is required", http.StatusBadRequest)
		return
	}
	landing := layout.Item{X: req.X, Y: req.Y, W: req.W, H: req.H}
	if err := landing.ValidateGeometry(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.apply(w, r, s.session.Drop(req.WidgetType, landing))
}

func (s *Server) handleItemAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var err error
	switch action := r.PathValue("action"); action {
	case "lock":
		err = s.session.ToggleLock(id)
	case "maximize":
		err = s.session.Maximize(id)
	case "minimize":
		err = s.session.Minimize(id)
	case "remove":
		err = s.session.Remove(id)
	default:
		http.Error(w, fmt.Sprintf("unknown action '%s'", action), http.StatusNotFound)
		return
	}
	s.apply(w, r, err)
}

// Host controls

func (s *Server) handleDrawerOpen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Open bool `json:"open"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.apply(w, r, s.session.SetDrawerOpen(req.Open))
}

func (s *Server) handleLocked(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Locked bool `json:"locked"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.apply(w, r, s.session.SetLayoutLocked(req.Locked))
}

func (s *Server) handleTemplateSet(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "reading body: "+err.Error(), http.StatusBadRequest)
		return
	}
	t, err := config.ParseTemplate(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.session.SetTemplate(t); err != nil {
		s.writeError(w, err)
		return
	}
	if s.store != nil {
		if err := s.store.Save(t); err != nil {
			s.logger.Error("saving template", "path", s.store.Path(), "err", err)
			http.Error(w, "saved in session but not on disk: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}
	s.writeState(w, r)
}

func (s *Server) handleConfigValidate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "reading body: "+err.Error(), http.StatusBadRequest)
		return
	}

	type result struct {
		Valid   bool   `json:"valid"`
		Widgets int    `json:"widgets"`
		Error   string `json:"error,omitempty"`
	}
	cfg, err := config.LoadFromBytes(data)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		writeJSON(w, http.StatusOK, result{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result{Valid: true, Widgets: len(cfg.Widgets)})
}

// helpers

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// apply answers a mutation with the resulting state.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w, r)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrClosed):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, layout.ErrUnknownBreakpoint), errors.Is(err, layout.ErrInvalidGeometry):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("request failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestOrigin reconstructs the origin the client used to reach us.
func requestOrigin(r *http.Request) string {
	if o := r.Header.Get("Origin"); o != "" {
		return o
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
