package test

import (
	"context"
	"io"
	"sync"

	"podcast-repurposer/internal/generate"
	"podcast-repurposer/internal/storage"
	"podcast-repurposer/internal/transcribe"
)

// FakeResolver returns a fixed audio object.
type FakeResolver struct {
	Err   error
	Calls int
}

func (f *FakeResolver) Resolve(ctx context.Context, fileURL string) (*storage.Object, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return &storage.Object{Data: []byte("audio"), Filename: "episode.mp3", ContentType: "audio/mpeg"}, nil
}

// FakeTranscriber returns Text or Err.
type FakeTranscriber struct {
	Text  string
	Err   error
	Calls int
}

func (f *FakeTranscriber) Transcribe(ctx context.Context, audio transcribe.Audio) (string, error) {
	f.Calls++
	return f.Text, f.Err
}

// FakeGenerator streams Chunks in order.
type FakeGenerator struct {
	Chunks []string
	Err    error
}

func (f *FakeGenerator) Stream(ctx context.Context, systemPrompt, userContent string) (generate.ChunkStream, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return &sliceStream{chunks: append([]string(nil), f.Chunks...)}, nil
}

type sliceStream struct {
	chunks []string
}

func (s *sliceStream) Recv() (string, error) {
	if len(s.chunks) == 0 {
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *sliceStream) Close() error { return nil }

// RecordingNotifier keeps every notification it is asked to send.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []string
}

func (n *RecordingNotifier) Notify(ctx context.Context, userID, title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, userID+": "+title)
	return nil
}
