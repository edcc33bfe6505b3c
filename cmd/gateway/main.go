// In file: cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/dlm-assistant/landscape-gateway/internal/backend"
	"github.com/dlm-assistant/landscape-gateway/internal/llm"
	"github.com/dlm-assistant/landscape-gateway/internal/tools"
)

// main is the entry point for the application.
// Its primary role is the "Composition Root": it loads configuration,
// initializes all services, injects dependencies, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting Landscape Gateway | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	// 2. INITIALIZE SERVICES
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("❌ FATAL: Could not connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		log.Println("✅ Answer cache enabled.")
	} else {
		log.Println("⚠️ REDIS_ADDR not set, answer cache disabled.")
	}

	llmClient, err := initializeLLMClient(cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	toolManager, err := initializeToolManager(cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	invoker := tools.NewInvoker(toolManager)
	orchestrator := llm.NewOrchestrator(llmClient, invoker, toolManager, &llm.GenerationConfig{Model: cfg.Model})
	intentAnalyzer := llm.NewIntentAnalyzer()

	gatewayHandler := NewGatewayHandler(orchestrator, intentAnalyzer, toolManager, cfg.Model, rdb)
	log.Println("✅ All services initialized.")

	// 3. SETUP AND RUN THE WEB SERVER
	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := gin.Default()
	v1 := engine.Group("/api/v1")
	{
		v1.POST("/ask", gatewayHandler.HandleAsk)
		v1.GET("/tools", gatewayHandler.HandleTools)
	}

	srv := &http.Server{Addr: fmt.Sprintf(":%s", os.Getenv("PORT")), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// initializeLLMClient creates the completion client matching the configured
// model ID. The tool-dispatch loop is provider-agnostic; only the transport
// differs.
func initializeLLMClient(cfg *AppConfig) (llm.LLMClient, error) {
	switch {
	case strings.HasPrefix(cfg.Model, "gpt"):
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIAPIURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client for %s: %w", cfg.Model, err)
		}
		return client, nil
	case strings.HasPrefix(cfg.Model, "gemini"):
		client, err := llm.NewGeminiClient(cfg.GeminiKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client for %s: %w", cfg.Model, err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown model provider for %s", cfg.Model)
	}
}

// initializeToolManager creates the backend clients and registers all tools.
// The registry is complete before the server starts and never changes
// afterwards.
func initializeToolManager(cfg *AppConfig) (*tools.ToolManager, error) {
	landscapeClient, err := backend.NewLandscapeClient(cfg.Landscape)
	if err != nil {
		return nil, fmt.Errorf("failed to create landscape client: %w", err)
	}
	requestClient, err := backend.NewRequestClient(cfg.RequestService)
	if err != nil {
		return nil, fmt.Errorf("failed to create client-request client: %w", err)
	}

	manager := tools.NewToolManager()
	manager.Register(tools.NewSystemDetailsTool(landscapeClient))
	manager.Register(tools.NewSectionsTool(landscapeClient))
	manager.Register(tools.NewRequestSearchTool(requestClient))

	log.Printf("✅ Tool Manager initialized with %d tools.", manager.ToolCount())
	return manager, nil
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Gateway is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
