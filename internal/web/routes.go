package web

import (
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/static"
)

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.gateway)
	dashboardHandler := handlers.NewDashboardHandler(s.gateway, s.config.Messages)
	screenHandler := handlers.NewScreenHandler(s.navigator)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		// Verifier data
		r.Get("/dashboard", dashboardHandler.Overview)
		r.Get("/employees", dashboardHandler.Employees)
		r.Get("/attendance", dashboardHandler.Attendance)

		// Screens
		r.Get("/screen", screenHandler.Get)
		r.Get("/screen/events", screenHandler.Events)
		r.Put("/screen/fields", screenHandler.UpdateFields)
		r.Post("/screen/capture", screenHandler.Capture)
		r.Post("/screen/retake", screenHandler.Retake)
		r.Post("/screen/submit", screenHandler.Submit)
		r.Post("/screen/{kind}", screenHandler.Navigate)
	})

	// Kiosk page
	s.router.Get("/*", s.serveKiosk)
}

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".ico":  "image/x-icon",
}

// serveKiosk serves the embedded kiosk page. Unknown paths get index.html.
func (s *Server) serveKiosk(w http.ResponseWriter, r *http.Request) {
	fs := static.GetFileSystem()

	p := r.URL.Path
	if p == "/" {
		p = "/index.html"
	}

	f, err := fs.Open(p)
	if err != nil {
		p = "/index.html"
		if f, err = fs.Open(p); err != nil {
			http.NotFound(w, r)
			return
		}
	}
	defer f.Close()

	if stat, err := f.Stat(); err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	contentType, ok := contentTypes[path.Ext(p)]
	if !ok {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}
