package llm

import (
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

// cleanResponse strips markdown fences and surrounding prose from a model
// response, then runs the result through jsonrepair so truncated or
// slightly malformed output still parses. Returns the best-effort JSON
// string; callers validate by unmarshalling.
func cleanResponse(response string) string {
	extracted := extractJSON(response)
	repaired, err := jsonrepair.JSONRepair(extracted)
	if err != nil {
		return extracted
	}
	return repaired
}

// extractJSON pulls the JSON payload out of a response that may wrap it in
// code fences or explanatory text.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```json"); idx != -1 {
		rest := response[idx+7:]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	if strings.HasPrefix(response, "```") {
		lines := strings.Split(response, "\n")
		if len(lines) > 2 {
			return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}

	if start, end := strings.Index(response, "{"), strings.LastIndex(response, "}"); start != -1 && end > start {
		return response[start : end+1]
	}
	if start, end := strings.Index(response, "["), strings.LastIndex(response, "]"); start != -1 && end > start {
		return response[start : end+1]
	}

	return response
}
