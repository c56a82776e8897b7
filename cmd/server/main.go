package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/course-companion/backend/internal/catalog"
	"github.com/course-companion/backend/internal/config"
	"github.com/course-companion/backend/internal/database"
	"github.com/course-companion/backend/internal/entitlement"
	"github.com/course-companion/backend/internal/middleware"
	"github.com/course-companion/backend/internal/progress"
	"github.com/course-companion/backend/internal/quizzes"
	"github.com/course-companion/backend/internal/search"
	"github.com/course-companion/backend/internal/skills"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	retry := database.RetryPolicy{
		Attempts: cfg.StoreRetries,
		Delay:    cfg.StoreRetryDelay,
		Timeout:  cfg.StoreTimeout,
	}

	// Stores
	catalogStore := catalog.NewStore(db, retry)
	progressStore := progress.NewStore(db, retry)
	quizStore := quizzes.NewStore(db, retry)
	entitlementStore := entitlement.NewStore(db, retry)

	// Startup loads: entitlement rules and the search corpus are read once
	// and frozen for the process lifetime.
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rules, err := entitlementStore.LoadRules(startupCtx)
	if err != nil {
		log.Fatalf("Failed to load entitlement rules: %v", err)
	}
	ruleset := entitlement.NewRuleset(rules)
	log.Printf("[entitlement] loaded %d rules", len(rules))

	// No embedder is wired in this deployment; semantic and hybrid requests
	// degrade to keyword ranking against the stored vectors' corpus.
	index, err := search.LoadIndex(startupCtx, catalogStore, nil,
		cfg.HybridKeywordWeight, cfg.HybridSemanticWeight, cfg.SearchMaxResults)
	if err != nil {
		log.Fatalf("Failed to build search index: %v", err)
	}

	// Services
	gate := entitlement.NewService(catalogStore, ruleset, cfg.UpgradeURL)
	progressService := progress.NewService(progressStore, catalogStore, gate)
	quizService := quizzes.NewService(quizStore, catalogStore, gate, cfg.QuizMaxAttempts, cfg.QuizPassingScore)

	// Handlers
	entitlementHandler := entitlement.NewHandler(gate)
	progressHandler := progress.NewHandler(progressService)
	quizHandler := quizzes.NewHandler(quizService)
	searchHandler := search.NewHandler(index)
	skillsHandler := skills.NewHandler()

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))
	protected.HandleFunc("/quizzes/{quizID}/attempts", quizHandler.SubmitAttempt).Methods("POST")
	protected.HandleFunc("/quizzes/{quizID}/questions/{questionID}/answer", quizHandler.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/chapters/{chapterID}/complete", progressHandler.CompleteChapter).Methods("POST")
	protected.HandleFunc("/activity", progressHandler.RecordActivity).Methods("POST")
	protected.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/access", entitlementHandler.CheckAccess).Methods("GET")
	protected.HandleFunc("/search", searchHandler.Search).Methods("GET")
	protected.HandleFunc("/skills", skillsHandler.ListSkills).Methods("GET")
	protected.HandleFunc("/skills/calculate", skillsHandler.Calculate).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: c.Handler(r),
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
