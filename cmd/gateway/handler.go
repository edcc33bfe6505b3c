// In file: cmd/gateway/handler.go
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dlm-assistant/landscape-gateway/internal/api"
	"github.com/dlm-assistant/landscape-gateway/internal/llm"
	"github.com/dlm-assistant/landscape-gateway/internal/tools"
	cacheversion "github.com/dlm-assistant/landscape-gateway/internal/version"
)

const (
	cacheKeyPrefix = "dlmcache"
	cacheTTL       = 1 * time.Hour
)

// GatewayHandler serves the public HTTP surface. It owns the answer cache
// and delegates the actual conversation run to the orchestrator.
type GatewayHandler struct {
	orchestrator   *llm.Orchestrator
	intentAnalyzer *llm.IntentAnalyzer
	toolManager    *tools.ToolManager
	modelID        string
	rdb            *redis.Client // nil disables the answer cache
}

func NewGatewayHandler(orchestrator *llm.Orchestrator, intentAnalyzer *llm.IntentAnalyzer, toolManager *tools.ToolManager, modelID string, rdb *redis.Client) *GatewayHandler {
	return &GatewayHandler{
		orchestrator:   orchestrator,
		intentAnalyzer: intentAnalyzer,
		toolManager:    toolManager,
		modelID:        modelID,
		rdb:            rdb,
	}
}

// HandleAsk answers one landscape/client-request question.
func (h *GatewayHandler) HandleAsk(c *gin.Context) {
	startTime := time.Now()
	var req api.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	requestID := uuid.NewString()
	log.Printf("--- New Request (ID: %s, Convo: %s, Prompt: '%.40s...') ---", requestID, req.ConversationID, req.Prompt)

	cacheKey := cacheversion.GenerateVersionedCacheKey(cacheKeyPrefix, conversationKeyParts(&req)...)
	if cached, found := h.checkCache(c.Request.Context(), cacheKey); found {
		log.Println("✅ Cache HIT")
		cached.LatencyMS = time.Since(startTime).Milliseconds()
		cached.CacheStatus = "HIT"
		c.JSON(http.StatusOK, cached)
		return
	}
	log.Println("⚠️ Cache MISS")

	intent := h.intentAnalyzer.AnalyzeIntent(req.Prompt)
	log.Printf("🔍 Intent Detected: %s", intent)

	messages := []llm.Message{{Role: llm.RoleSystem, Content: llm.SystemPrompt(intent)}}
	for _, msg := range req.History {
		messages = append(messages, llm.Message{Role: llm.Role(msg.Role), Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Prompt})

	result, err := h.orchestrator.Run(c.Request.Context(), messages)
	if err != nil {
		// Only a completion-service failure reaches this branch; tool
		// failures are folded into the answer.
		log.Printf("❌ Run %s failed: %v", requestID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	response := api.AskResponse{
		Answer:          result.Answer,
		ModelUsed:       h.modelID,
		Usage:           result.Usage,
		LatencyMS:       time.Since(startTime).Milliseconds(),
		CacheStatus:     "MISS",
		ToolInvocations: summarizeToolResults(result.ToolResults),
	}

	// Only cache runs whose tool calls all succeeded; a transient backend
	// failure must not be replayed for an hour.
	if allOK(result.ToolResults) {
		h.setCache(c.Request.Context(), cacheKey, &response)
	}

	c.JSON(http.StatusOK, response)
}

// HandleTools advertises the registered tool schemas, mainly for diagnosis.
func (h *GatewayHandler) HandleTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.toolManager.GetDefinitions()})
}

// conversationKeyParts flattens the request into the strings hashed for the
// answer-cache key. The history is included so two conversations that end in
// the same prompt but arrived there differently never share a cache entry.
func conversationKeyParts(req *api.AskRequest) []string {
	parts := make([]string, 0, 2*len(req.History)+1)
	for _, msg := range req.History {
		parts = append(parts, msg.Role, msg.Content)
	}
	return append(parts, req.Prompt)
}

func summarizeToolResults(results []*tools.ToolCallResult) []api.ToolInvocation {
	if len(results) == 0 {
		return nil
	}
	summaries := make([]api.ToolInvocation, 0, len(results))
	for _, r := range results {
		inv := api.ToolInvocation{Name: r.Name, OK: r.OK()}
		if r.Failure != nil {
			inv.Failure = string(r.Failure.Kind)
		}
		summaries = append(summaries, inv)
	}
	return summaries
}

func allOK(results []*tools.ToolCallResult) bool {
	for _, r := range results {
		if !r.OK() {
			return false
		}
	}
	return true
}

func (h *GatewayHandler) checkCache(ctx context.Context, key string) (*api.AskResponse, bool) {
	if h.rdb == nil {
		return nil, false
	}
	val, err := h.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var resp api.AskResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (h *GatewayHandler) setCache(ctx context.Context, key string, resp *api.AskResponse) {
	if h.rdb == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		log.Printf("WARNING: Failed to marshal response for caching: %v", err)
		return
	}
	if err := h.rdb.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		log.Printf("WARNING: Failed to cache response: %v", err)
		return
	}
	log.Println("✅ Response CACHED")
}
