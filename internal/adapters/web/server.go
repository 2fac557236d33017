package web

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corey/derivtree/internal/ports"
)

// maxInputBytes bounds a generate request body. Chart size grows with the
// square of the input length, so this stays well under what one parse can
// hold in memory.
const maxInputBytes = 1 << 10

// DefaultGenerateTimeout bounds one generate request.
const DefaultGenerateTimeout = 10 * time.Second

// Generator is the slice of the app the server needs.
type Generator interface {
	Generate(ctx context.Context, input string) (*ports.Outcome, error)
	Last() *ports.Outcome
	GrammarText() string
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Input string `json:"input"`
}

// GrammarResult is the body of GET /api/grammar.
type GrammarResult struct {
	Grammar string `json:"grammar"`
}

// HealthResult is the body of GET /api/health.
type HealthResult struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Last   string `json:"last,omitempty"` // file of the most recent render
}

// ErrorResult is the body of every non-2xx API response.
type ErrorResult struct {
	Error string `json:"error"`
}

// Server serves the form page and JSON API over HTTP.
type Server struct {
	gen      Generator
	listener net.Listener
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once
	timeout  time.Duration

	portFilePath string // .derivtree/run/http.port
}

// NewServer creates an HTTP server for the form.
// The portFilePath is where the bound port is written for discovery.
func NewServer(gen Generator, portFilePath string) *Server {
	return &Server{
		gen:          gen,
		started:      time.Now(),
		timeout:      DefaultGenerateTimeout,
		portFilePath: portFilePath,
	}
}

// SetGenerateTimeout changes how long one generate request may run.
// Must be called before Start.
func (s *Server) SetGenerateTimeout(d time.Duration) {
	s.timeout = d
}

// DefaultPort computes a project-specific port: 19000 + (hash(abs_path) % 1000).
func DefaultPort(projectRoot string) int {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	n := uint32(h[0])<<24 | uint32(h[1])<<16 | uint32(h[2])<<8 | uint32(h[3])
	return 19000 + int(n%1000)
}

// Handler returns the route table. Start serves it; tests mount it directly.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /static/", http.FileServerFS(staticFS))
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/image", s.handleImage)
	mux.HandleFunc("GET /api/grammar", s.handleGrammar)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

// Start begins listening on the preferred port (0 picks a free one) and
// writes the bound port to the port file.
func (s *Server) Start(preferredPort int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", preferredPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()
	s.httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	if s.portFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(s.portFilePath), 0755); err == nil {
			os.WriteFile(s.portFilePath, []byte(fmt.Sprintf("%d", s.port)), 0644)
		}
	}

	go s.httpSrv.Serve(ln)
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpSrv.Shutdown(ctx)
		}
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the form URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, staticFS, "static/index.html")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	body := http.MaxBytesReader(w, r.Body, maxInputBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResult{Error: "input too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResult{Error: "invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	out, err := s.gen.Generate(ctx, req.Input)
	if errors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResult{Error: "generate timed out"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResult{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	last := s.gen.Last()
	if last == nil || last.File == "" {
		writeJSON(w, http.StatusNotFound, ErrorResult{Error: "nothing rendered yet"})
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, last.File)
}

func (s *Server) handleGrammar(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GrammarResult{Grammar: s.gen.GrammarText()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result := HealthResult{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}
	if last := s.gen.Last(); last != nil {
		result.Last = last.File
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
