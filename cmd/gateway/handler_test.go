// In file: cmd/gateway/handler_test.go
package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dlm-assistant/landscape-gateway/internal/api"
	cacheversion "github.com/dlm-assistant/landscape-gateway/internal/version"
)

func TestConversationKeyPartsIncludeHistory(t *testing.T) {
	req := &api.AskRequest{
		Prompt: "and its clients?",
		History: []api.Message{
			{Role: "user", Content: "tell me about system CCF"},
			{Role: "assistant", Content: "CCF is a development system."},
		},
	}

	parts := conversationKeyParts(req)
	assert.Equal(t, []string{
		"user", "tell me about system CCF",
		"assistant", "CCF is a development system.",
		"and its clients?",
	}, parts)
}

func TestCacheKeyDiffersForSamePromptWithDifferentHistory(t *testing.T) {
	// Two conversations that end in the same prompt must never be served
	// each other's cached answer.
	first := &api.AskRequest{
		Prompt:  "and its clients?",
		History: []api.Message{{Role: "user", Content: "tell me about system CCF"}},
	}
	second := &api.AskRequest{
		Prompt:  "and its clients?",
		History: []api.Message{{Role: "user", Content: "tell me about system ER1"}},
	}

	firstKey := cacheversion.GenerateVersionedCacheKey(cacheKeyPrefix, conversationKeyParts(first)...)
	secondKey := cacheversion.GenerateVersionedCacheKey(cacheKeyPrefix, conversationKeyParts(second)...)
	assert.NotEqual(t, firstKey, secondKey)
}
