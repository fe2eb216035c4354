package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes (HTML templates)
	mux.HandleFunc("/", s.routeRoot)
	mux.HandleFunc("/dashboard", s.app.PageHandler.ServePage("dashboard.html", "dashboard"))

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/funds", s.app.FundsHandler.List)
	mux.HandleFunc("/api/funds/", s.app.FundsHandler.Detail)
	mux.HandleFunc("/api/search", s.app.SearchHandler.ServeHTTP)
	mux.HandleFunc("/api/securities/popular", s.app.SecuritiesHandler.Popular)
	mux.HandleFunc("/api/securities/", s.app.SecuritiesHandler.Holders)
	mux.HandleFunc("/api/export/", s.app.ExportHandler.ServeHTTP)
	mux.HandleFunc("/api/admin/reload", s.app.AdminHandler.Reload)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// routeRoot serves the landing page on "/" and a 404 elsewhere; the
// catch-all pattern would otherwise render the landing page for every
// unknown path.
func (s *Server) routeRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.app.PageHandler.ServePage("landing.html", "home")(w, r)
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
