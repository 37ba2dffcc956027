// Package mockapi is an in-memory stand-in for the deal pipeline REST API.
// It backs the package tests and `dealflow mock-server`; nothing is persisted.
package mockapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures a Server.
type Options struct {
	Secret         string
	AllowedOrigins []string
	Logger         *slog.Logger
	Now            func() time.Time
}

type fault struct {
	status int
	body   string
}

// Server serves the pipeline API from memory.
type Server struct {
	mu       sync.Mutex
	st       *store
	secret   []byte
	logger   *slog.Logger
	now      func() time.Time
	faults   map[string][]fault
	requests map[string]int
	router   chi.Router
}

// New creates an empty Server.
func New(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = "dealflow-dev-secret"
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	s := &Server{
		st:       newStore(),
		secret:   []byte(opts.Secret),
		logger:   opts.Logger,
		now:      opts.Now,
		faults:   make(map[string][]fault),
		requests: make(map[string]int),
	}
	s.router = s.routes(opts.AllowedOrigins)
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(origins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(s.logRequests)
	r.Use(s.countAndInjectFaults)

	r.Post("/users/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/users/me", s.handleMe)
		r.With(requireRole(domain.RoleAdmin)).Get("/users", s.handleListUsers)
		r.With(requireRole(domain.RoleAdmin)).Post("/users", s.handleCreateUser)

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", s.handleListDeals)
			r.Get("/{dealID}", s.handleGetDeal)
			r.Group(func(r chi.Router) {
				r.Use(requireRole(domain.RoleAdmin, domain.RoleAnalyst))
				r.Post("/", s.handleCreateDeal)
				r.Put("/{dealID}", s.handleUpdateDeal)
				r.Delete("/{dealID}", s.handleDeleteDeal)
			})
		})

		r.Route("/activities", func(r chi.Router) {
			r.Get("/deal/{dealID}", s.handleListActivities)
			r.Post("/comment", s.handleComment)
			r.Get("/deal/{dealID}/vote", s.handleGetVote)
			r.Group(func(r chi.Router) {
				r.Use(requireRole(domain.RolePartner))
				r.Post("/deal/{dealID}/vote", s.handleVote)
				r.Post("/deal/{dealID}/approve", s.handleDecision(domain.DealApproved))
				r.Post("/deal/{dealID}/decline", s.handleDecision(domain.DealDeclined))
			})
		})

		r.Route("/memos", func(r chi.Router) {
			r.Get("/deal/{dealID}", s.handleGetMemoByDeal)
			r.Get("/{memoID}/versions", s.handleListVersions)
			r.Group(func(r chi.Router) {
				r.Use(requireRole(domain.RoleAdmin, domain.RoleAnalyst))
				r.Post("/", s.handleCreateMemo)
				r.Put("/{memoID}", s.handleUpdateMemo)
			})
		})
	})
	return r
}

// FailNext makes the next request matching method and path answer with
// status instead of being handled. Faults queue per route.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := routeKey(method, path)
	s.faults[key] = append(s.faults[key], fault{
		status: status,
		body:   fmt.Sprintf(`{"detail":"injected %d"}`, status),
	})
}

// Requests returns how many requests hit method and path, faults included.
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[routeKey(method, path)]
}

// TotalRequests counts every request the server has seen.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.requests {
		n += c
	}
	return n
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + strings.TrimRight(path, "/")
}

func (s *Server) countAndInjectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, r.URL.Path)
		s.mu.Lock()
		s.requests[key]++
		var f *fault
		if q := s.faults[key]; len(q) > 0 {
			f = &q[0]
			s.faults[key] = q[1:]
		}
		s.mu.Unlock()

		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
