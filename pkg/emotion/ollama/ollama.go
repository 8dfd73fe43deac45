// Package ollama implements emotion.Classifier against a locally hosted
// Ollama server.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/semaphore"

	"github.com/reviewscope/backend/pkg/emotion"
)

// Client scores review emotions through an Ollama chat model with a JSON
// schema response format and produces embeddings through the embed endpoint.
type Client struct {
	chatModel      string
	embeddingModel string

	reqLock *semaphore.Weighted

	client *api.Client
}

// NewClientParams configures a new Client. BaseURL may be empty to use the
// local Ollama default.
type NewClientParams struct {
	ChatModel      string
	EmbeddingModel string

	BaseURL string
	APIKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

func NewClient(params NewClientParams) (*Client, error) {
	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 1
	}

	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = "http://127.0.0.1:11434"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url: %w", err)
	}

	httpClient := http.DefaultClient
	if params.APIKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{"Authorization": "Bearer " + params.APIKey},
				rt:      http.DefaultTransport,
			},
		}
	}

	return &Client{
		chatModel:      params.ChatModel,
		embeddingModel: params.EmbeddingModel,
		reqLock:        semaphore.NewWeighted(maxReq),
		client:         api.NewClient(parsed, httpClient),
	}, nil
}

// ClassifyEmotions scores text against the emotion label set.
func (c *Client) ClassifyEmotions(ctx context.Context, text string) ([]emotion.Score, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	schemaObj := emotion.GenerateSchema(emotion.Classification{})
	formatBytes, err := json.Marshal(schemaObj)
	if err != nil {
		return nil, err
	}

	prompt := emotion.ClassifyPrompt(text)
	stream := false
	req := &api.ChatRequest{
		Model: c.chatModel,
		Messages: []api.Message{
			{Role: "system", Content: emotion.SystemPrompt()},
			{Role: "user", Content: prompt},
		},
		Format:  json.RawMessage(formatBytes),
		Stream:  &stream,
		Options: map[string]any{"temperature": 0.0},
	}

	// Ollama defaults to a small context window; size it to the prompt so
	// long reviews are not silently truncated.
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return nil, err
	}
	tokens := 512 + len(enc.Encode(prompt, nil, nil))
	if tokens > 4096 {
		req.Options["num_ctx"] = tokens
	}

	var final api.ChatResponse
	if err := c.client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var out emotion.Classification
	if err := emotion.UnmarshalFlexible(final.Message.Content, &out); err != nil {
		return nil, err
	}

	return emotion.NormalizeScores(out.Emotions), nil
}

// GenerateEmbedding creates a vector embedding for the given review text.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	res, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: c.embeddingModel,
		Input: text,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) != 1 {
		return nil, fmt.Errorf("unexpected embedding result size: got %d want 1", len(res.Embeddings))
	}

	return res.Embeddings[0], nil
}
