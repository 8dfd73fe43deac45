// Package openai implements emotion.Classifier against any
// OpenAI-compatible chat and embeddings API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"

	"github.com/reviewscope/backend/pkg/emotion"
)

// Client scores review emotions via chat completions with a strict JSON
// schema and produces review embeddings via the embeddings endpoint. The
// two endpoints can point at different deployments.
type Client struct {
	chatModel      string
	embeddingModel string

	reqLock *semaphore.Weighted

	chatClient      *openai.Client
	embeddingClient *openai.Client
}

// NewClientParams configures a new Client. ChatURL/EmbeddingURL may be
// empty to use the default OpenAI endpoint.
type NewClientParams struct {
	ChatModel      string
	EmbeddingModel string

	ChatURL      string
	ChatKey      string
	EmbeddingURL string
	EmbeddingKey string

	MaxConcurrentRequests int64
}

func NewClient(params NewClientParams) *Client {
	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 1
	}

	chatOpts := []option.RequestOption{option.WithAPIKey(params.ChatKey)}
	if params.ChatURL != "" {
		chatOpts = append(chatOpts, option.WithBaseURL(params.ChatURL))
	}
	chatClient := openai.NewClient(chatOpts...)

	embedOpts := []option.RequestOption{option.WithAPIKey(params.EmbeddingKey)}
	if params.EmbeddingURL != "" {
		embedOpts = append(embedOpts, option.WithBaseURL(params.EmbeddingURL))
	}
	embeddingClient := openai.NewClient(embedOpts...)

	return &Client{
		chatModel:       params.ChatModel,
		embeddingModel:  params.EmbeddingModel,
		reqLock:         semaphore.NewWeighted(maxReq),
		chatClient:      &chatClient,
		embeddingClient: &embeddingClient,
	}
}

// ClassifyEmotions scores text against the emotion label set.
func (c *Client) ClassifyEmotions(ctx context.Context, text string) ([]emotion.Score, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	schema := emotion.GenerateSchema(emotion.Classification{})
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "emotion_classification",
		Description: openai.String("Emotion confidence scores for a product review"),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.chatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(emotion.SystemPrompt()),
			openai.UserMessage(emotion.ClassifyPrompt(text)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Temperature: openai.Float(0.0),
	}

	response, err := c.chatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	var out emotion.Classification
	if err := emotion.UnmarshalFlexible(response.Choices[0].Message.Content, &out); err != nil {
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

	res, err := c.embeddingClient.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Data) != 1 {
		return nil, fmt.Errorf("unexpected embedding result size: got %d want 1", len(res.Data))
	}

	embedding := make([]float32, len(res.Data[0].Embedding))
	for i, v := range res.Data[0].Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}
