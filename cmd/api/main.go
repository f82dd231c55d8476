package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"business_planner/pkg/api/config"
	"business_planner/pkg/api/plan"
	"business_planner/pkg/core/agent"
	coreConfig "business_planner/pkg/core/config"
	"business_planner/pkg/core/prompt"
	"business_planner/pkg/core/store"
)

var agentMgr *agent.Manager

func main() {
	cfg, err := coreConfig.Load(coreConfig.DefaultPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	// Initialize Prompt Library: embedded defaults, then optional overrides
	prompts := prompt.Get()
	if err := prompts.LoadFromDirectory(cfg.Prompts.Dir); err != nil {
		fmt.Printf("[PROMPT] No overrides loaded (%v), using %d embedded prompts\n", err, prompts.Count())
	}

	agentMgr = agent.NewManager(cfg.Agents)
	if !coreConfig.HasGeminiKey() {
		fmt.Println("[WARNING] GEMINI_API_KEY is not set; Gemini narratives will fail")
	}

	ctx := context.Background()
	if cfg.Storage.DatabaseURL != "" {
		if err := store.InitDB(ctx, cfg.Storage.DatabaseURL); err != nil {
			fmt.Printf("[WARNING] Database unavailable, falling back to files: %v\n", err)
		}
	}
	planStore, err := store.Open(store.GetPool(), cfg.Storage.FileDir)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	sessions := plan.NewSessions(planStore, agentMgr, prompts, cfg.Planner.AutoSaveDelay, cfg.Planner.CacheSize)

	mux := http.NewServeMux()

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	mux.HandleFunc("/api/config", configHandler.HandleConfig)
	mux.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Plan endpoints
	plan.NewHandler(sessions).Register(mux)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	fmt.Printf("API server starting on %s...\n", cfg.Server.Addr)
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - GET  /api/plan/{user}/state")
	fmt.Println("  - POST /api/plan/{user}/financial-plan")
	fmt.Println("  - POST /api/plan/{user}/narrative/{report}")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("[FATAL] Server failed to start: %v\n", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	fmt.Println("Shutting down, flushing unsaved plans...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("[WARNING] Shutdown: %v\n", err)
	}
	if err := sessions.FlushAll(shutdownCtx); err != nil {
		fmt.Printf("[WARNING] Some plans were not saved: %v\n", err)
	}
}
