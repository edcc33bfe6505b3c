// In file: internal/llm/intent_analyzer.go
package llm

import (
	"log"
	"regexp"
	"strings"
)

// Define constants for the different intents we can detect.
const (
	IntentLandscape     = "landscape"
	IntentClientRequest = "client_request"
	IntentGeneral       = "general"
)

// requestIDRegex matches the 13-digit client-request identifiers
// (e.g. 2025000000060) users paste into questions.
var requestIDRegex = regexp.MustCompile(`\b20\d{11}\b`)

// IntentAnalyzer performs fast keyword checks on the user's prompt. The
// detected intent only selects the system-prompt variant; the model itself
// still decides which tools to call.
type IntentAnalyzer struct{}

func NewIntentAnalyzer() *IntentAnalyzer {
	return &IntentAnalyzer{}
}

// AnalyzeIntent classifies a prompt as landscape-, client-request- or
// general-flavored.
func (ia *IntentAnalyzer) AnalyzeIntent(prompt string) string {
	lowerPrompt := strings.ToLower(prompt)

	requestKeywords := []string{"bcm", "client request", "scope item", "requestor", "request id"}
	for _, keyword := range requestKeywords {
		if strings.Contains(lowerPrompt, keyword) {
			log.Printf("Intent detected by keyword '%s': %s", keyword, IntentClientRequest)
			return IntentClientRequest
		}
	}
	if requestIDRegex.MatchString(prompt) {
		log.Printf("Intent detected by request-ID pattern: %s", IntentClientRequest)
		return IntentClientRequest
	}

	landscapeKeywords := []string{"landscape", "system", "sid", "tickets", "software component", "sections"}
	for _, keyword := range landscapeKeywords {
		if strings.Contains(lowerPrompt, keyword) {
			log.Printf("Intent detected by keyword '%s': %s", keyword, IntentLandscape)
			return IntentLandscape
		}
	}

	log.Println("No domain intent detected. Using the general prompt.")
	return IntentGeneral
}
