package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopmate-io/orchestrator/internal/adapter/llm"
	"github.com/shopmate-io/orchestrator/internal/agent"
	"github.com/shopmate-io/orchestrator/internal/config"
	"github.com/shopmate-io/orchestrator/internal/policy"
	"github.com/shopmate-io/orchestrator/internal/store"
	"github.com/shopmate-io/orchestrator/internal/tools"
	transport "github.com/shopmate-io/orchestrator/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting orchestrator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("LLM URL: %s", cfg.LLMBaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL, store.Options{ContextTTL: cfg.ContextTTL})
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Wire tools and the turn orchestrator
	registry := tools.NewBuiltinRegistry(db)
	orch := agent.New(db, llmClient, cfg.LLMModel, registry, policyEngine, agent.Config{
		PendingActionTTL:    cfg.PendingActionTTL,
		ReturnWindowDays:    cfg.ReturnWindowDays,
		LockFlagThreshold:   cfg.LockFlagThreshold,
		ReviewFlagThreshold: cfg.ReviewFlagThreshold,
	})

	// HTTP server
	server := transport.NewServer(orch, db)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down orchestrator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
