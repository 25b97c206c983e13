package generate

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT4o

// ChunkStream is a single-pass sequence of generated text chunks.
// Recv returns io.EOF once the model finishes.
type ChunkStream interface {
	Recv() (string, error)
	Close() error
}

// chatStreamer is implemented by *openai.Client.
type chatStreamer interface {
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
}

var _ chatStreamer = (*openai.Client)(nil)

// OpenAIGenerator streams chat completions from OpenAI.
type OpenAIGenerator struct {
	client chatStreamer
	model  string
}

// NewOpenAIGenerator wraps an explicitly constructed client.
func NewOpenAIGenerator(client *openai.Client, model string) *OpenAIGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIGenerator{client: client, model: model}
}

// Stream opens a completion stream for the given instruction and content.
func (g *OpenAIGenerator) Stream(ctx context.Context, systemPrompt, userContent string) (ChunkStream, error) {
	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open completion stream: %w", err)
	}
	return &openAIStream{stream: stream}, nil
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openAIStream) Recv() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *openAIStream) Close() error {
	s.stream.Close()
	return nil
}
