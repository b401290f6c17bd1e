package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cognee-oss/cognee-go/pkg/types"
)

const graphExtractionPrompt = `You are an expert knowledge graph extractor.
Extract entities and relationships from the provided text.

Return ONLY a JSON object with this exact shape:
{
  "nodes": [{"id": "<short unique id>", "name": "<display name>", "type": "<entity category>", "description": "<one sentence>"}],
  "edges": [{"source_node_id": "<node id>", "target_node_id": "<node id>", "relationship_name": "<verb phrase>"}]
}

Use lowercase snake_case for node ids. Edge endpoints must reference node ids
from the same response. Return {"nodes": [], "edges": []} when the text
contains no extractable knowledge.`

const eventExtractionPrompt = `You are an expert event analyst.
Given the description of one event, extract the entities participating in it.

Return ONLY a JSON array with this exact shape:
[{"entity": "<entity name>", "entity_type": "<entity category>", "relationship": "<the entity's role in the event>"}]

Return [] when the description names no entities.`

// OpenAIClient extracts knowledge graphs through an OpenAI-compatible chat
// completion endpoint.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// OpenAIOptions configures an OpenAIClient. BaseURL is optional and lets the
// client talk to any OpenAI-compatible server.
type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Logger      *slog.Logger
}

// NewOpenAIClient creates a client for the configured endpoint.
func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: opts.Temperature,
		logger:      logger,
	}
}

// ExtractKnowledgeGraph implements Client.
func (c *OpenAIClient) ExtractKnowledgeGraph(ctx context.Context, text string) (*types.KnowledgeGraph, error) {
	content, err := c.complete(ctx, graphExtractionPrompt, text, true)
	if err != nil {
		return nil, err
	}

	var graph types.KnowledgeGraph
	cleaned := cleanResponse(content)
	if err := json.Unmarshal([]byte(cleaned), &graph); err != nil {
		c.logger.Warn("unparseable extraction response", "model", c.model, "error", err)
		return nil, fmt.Errorf("%w: decoding graph: %v", ErrExtraction, err)
	}
	return &graph, nil
}

// ExtractEventAttributes implements Client.
func (c *OpenAIClient) ExtractEventAttributes(ctx context.Context, text string) ([]types.EventAttribute, error) {
	content, err := c.complete(ctx, eventExtractionPrompt, text, false)
	if err != nil {
		return nil, err
	}

	var attrs []types.EventAttribute
	cleaned := cleanResponse(content)
	if err := json.Unmarshal([]byte(cleaned), &attrs); err != nil {
		return nil, fmt.Errorf("%w: decoding event attributes: %v", ErrExtraction, err)
	}
	return attrs, nil
}

// Close implements Client.
func (c *OpenAIClient) Close() error { return nil }

// complete runs one chat completion. jsonObject forces the server-side JSON
// object response format; array-shaped responses must leave it off.
func (c *OpenAIClient) complete(ctx context.Context, system, user string, jsonObject bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if jsonObject {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrExtraction)
	}
	return resp.Choices[0].Message.Content, nil
}
