package transcribe

// NewTranscriberWithClient lets tests inject a fake audio client.
func NewTranscriberWithClient(client audioTranscriber, opts ...Option) *OpenAITranscriber {
	return newOpenAITranscriber(client, opts...)
}

// AudioTranscriber exposes the client interface to external tests.
type AudioTranscriber = audioTranscriber
