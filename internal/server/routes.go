package server

import "net/http"

func (s *Server) registerRoutes() {
	// Static files
	if s.staticFS != nil {
		s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(s.staticFS)))
	}

	// Read model
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/drawer", s.handleDrawerSearch)
	s.mux.HandleFunc("GET /api/template", s.handleTemplateGet)
	s.mux.HandleFunc("GET /api/preview", s.handlePreview)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)

	// Grid events
	s.mux.HandleFunc("POST /api/width", s.handleWidth)
	s.mux.HandleFunc("POST /api/layout", s.handleLayout)
	s.mux.HandleFunc("POST /api/drag", s.handleDrag)
	s.mux.HandleFunc("POST /api/drag/tile", s.handleTileDrag)
	s.mux.HandleFunc("POST /api/drop", s.handleDrop)
	s.mux.HandleFunc("POST /api/items/{id}/{action}", s.handleItemAction)

	// Host controls
	s.mux.HandleFunc("POST /api/drawer", s.handleDrawerOpen)
	s.mux.HandleFunc("POST /api/locked", s.handleLocked)
	s.mux.HandleFunc("POST /api/template", s.handleTemplateSet)
	s.mux.HandleFunc("POST /api/config/validate", s.handleConfigValidate)
}
