package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/sharad-mishra/bharat-lens/controllers"
	"github.com/sharad-mishra/bharat-lens/utils"
)

// Server wires the router, controllers and static frontend together
type Server struct {
	router     *mux.Router
	controller *controllers.Controller
	port       string
	staticDir  string
}

// NewServer creates a new server instance
func NewServer(port string) *Server {
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "dist"
	}

	return &Server{
		router:     mux.NewRouter(),
		controller: controllers.NewController(),
		port:       port,
		staticDir:  staticDir,
	}
}

// setupRoutes configures all endpoints
func (s *Server) setupRoutes() {
	s.router.Use(controllers.LoggingMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search-brands", s.controller.SearchBrandsHandler).Methods("POST")
	api.HandleFunc("/health", s.controller.HealthHandler).Methods("GET")
	api.HandleFunc("/test", s.controller.TestHandler).Methods("GET")
	api.HandleFunc("/status", s.controller.StatusHandler).Methods("GET")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Everything else serves the built frontend, with deep links falling
	// back to the SPA entry document
	s.router.PathPrefix("/").Handler(spaHandler{staticDir: s.staticDir})
}

// spaHandler serves files from the build directory, falling back to
// index.html for paths that do not exist on disk
type spaHandler struct {
	staticDir string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Unknown API paths are not pages, never serve the SPA for them
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticDir, filepath.Clean("/"+r.URL.Path))

	if info, err := os.Stat(path); err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
		return
	}

	http.FileServer(http.Dir(h.staticDir)).ServeHTTP(w, r)
}

// Start configures and starts the HTTP server
func (s *Server) Start() error {
	s.setupRoutes()

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	handler := c.Handler(s.router)

	// Ensure port has colon prefix
	if !strings.HasPrefix(s.port, ":") {
		s.port = ":" + s.port
	}

	log.Printf("BharatLens server starting on port %s", s.port)
	log.Printf("API endpoints: http://localhost%s/api/*", s.port)
	log.Printf("Frontend: http://localhost%s", s.port)

	return http.ListenAndServe(s.port, handler)
}

func main() {
	// Load .env before any service reads its configuration
	if err := utils.LoadEnvWithFallback(); err != nil {
		log.Printf("Could not load .env files: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	server := NewServer(port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
