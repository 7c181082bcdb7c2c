package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arbiterlab/dilemma-analyzer/internal/auth"
	"github.com/arbiterlab/dilemma-analyzer/internal/conflicts"
	"github.com/arbiterlab/dilemma-analyzer/internal/embeddings"
	"github.com/arbiterlab/dilemma-analyzer/internal/precedent"
	"github.com/arbiterlab/dilemma-analyzer/internal/relevance"
	"github.com/arbiterlab/dilemma-analyzer/internal/similarity"
	"github.com/arbiterlab/dilemma-analyzer/internal/storage"
)

// ServerConfig holds everything the server needs to wire its services.
type ServerConfig struct {
	DB *sql.DB

	JWTSecret string

	// OpenRouterKey enables embedding-backed action relevance. Without
	// it retrieval still works, with neutral action scores.
	OpenRouterKey string
}

type Server struct {
	router *chi.Mux
	logger *log.Logger

	authService  auth.Service
	authHandlers *auth.Handlers

	dilemmaRepo   storage.DilemmaRepository
	precedentRepo storage.PrecedentRepository
	conflictRepo  storage.ConflictRepository

	similarityService *similarity.Service
	detector          *conflicts.Detector
	retriever         *precedent.Retriever
	embeddingClient   *embeddings.CachedClient
}

func NewServer(cfg ServerConfig) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	logger := log.Default()

	authConfig := auth.DefaultConfig()
	if cfg.JWTSecret != "" {
		authConfig.SecretKey = cfg.JWTSecret
	}

	s := &Server{
		router:            r,
		logger:            logger,
		authService:       auth.NewJWTService(authConfig, auth.NewPostgresRepository(cfg.DB)),
		dilemmaRepo:       storage.NewPostgresDilemmaRepository(cfg.DB),
		precedentRepo:     storage.NewPostgresPrecedentRepository(cfg.DB),
		conflictRepo:      storage.NewPostgresConflictRepository(cfg.DB),
		similarityService: similarity.NewService(similarity.NewCache()),
		detector:          conflicts.NewDetector(conflicts.DefaultTables(), logger),
	}
	s.authHandlers = auth.NewHandlers(s.authService)

	var scorer precedent.ActionRelevanceScorer
	if cfg.OpenRouterKey != "" {
		s.embeddingClient = embeddings.NewCachedClient(
			embeddings.NewClient(cfg.OpenRouterKey),
			embeddings.NewMemoryCache(),
		)
		scorer = relevance.NewScorer(s.embeddingClient, logger).ScoreAction
	}
	s.retriever = precedent.NewRetriever(s.similarityService, scorer, precedent.DefaultOptions(), logger)

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/register", s.authHandlers.Register)
		r.Post("/auth/login", s.authHandlers.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))

			r.Get("/auth/me", s.authHandlers.Me)

			r.Route("/dilemmas", func(r chi.Router) {
				r.Get("/", s.handleListDilemmas)
				r.Post("/", s.handleCreateDilemma)
				r.Get("/{dilemmaID}", s.handleGetDilemma)
				r.Put("/{dilemmaID}", s.handleUpdateDilemma)
				r.Delete("/{dilemmaID}", s.handleDeleteDilemma)

				// Analysis
				r.Post("/{dilemmaID}/analyze", s.handleAnalyzeDilemma)
				r.Get("/{dilemmaID}/conflicts", s.handleGetConflicts)
				r.Post("/{dilemmaID}/conflicts/pairwise", s.handlePathConflicts)
				r.Get("/{dilemmaID}/similar", s.handleSimilarDilemmas)
				r.Post("/{dilemmaID}/precedents", s.handleFindPrecedents)
			})

			r.Route("/precedents", func(r chi.Router) {
				r.Get("/", s.handleListPrecedents)
				r.Post("/", s.handleCreatePrecedent)
			})
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
