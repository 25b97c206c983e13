package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"podcast-repurposer/internal/db"
	"podcast-repurposer/internal/generate"
	"podcast-repurposer/internal/models"
	"podcast-repurposer/internal/storage"
	"podcast-repurposer/internal/transcribe"
)

// Run stages, logged under the "stage" field.
const (
	StageAuthorizing     = "authorizing"
	StageCheckingBalance = "checking_balance"
	StageResolvingAsset  = "resolving_asset"
	StageTranscribing    = "transcribing"
	StageGenerating      = "generating"
	StagePersisting      = "persisting"
	StageDone            = "done"
	StageFailed          = "failed"
)

const (
	DefaultTimeout = 10 * time.Minute

	NotificationTitle   = "Processing complete"
	NotificationMessage = "Your podcast content is ready to view."

	markFailedTimeout = 10 * time.Second
)

// Store is the datastore surface used by a run. Every call is owner scoped.
type Store interface {
	GetTokenBalance(ctx context.Context, userID string) (int, error)
	GetPodcastForOwner(ctx context.Context, id, userID string) (*models.Podcast, error)
	UpdatePodcastStatus(ctx context.Context, id, userID, status string) error
	SaveGeneration(ctx context.Context, g db.Generation) error
}

// AssetResolver downloads the audio behind a stored locator.
type AssetResolver interface {
	Resolve(ctx context.Context, fileURL string) (*storage.Object, error)
}

// Generator opens a model token stream.
type Generator interface {
	Stream(ctx context.Context, systemPrompt, userContent string) (generate.ChunkStream, error)
}

// Notifier tells a user that a run finished.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message string) error
}

// Request is one call to process a podcast.
type Request struct {
	UserID          string
	PodcastID       string
	Tone            string
	ContentLanguage string
}

// Orchestrator drives a podcast from stored audio to persisted content.
type Orchestrator struct {
	store       Store
	ledger      *Ledger
	assets      AssetResolver
	transcriber transcribe.Transcriber
	generator   Generator
	notifier    Notifier
	timeout     time.Duration
	log         zerolog.Logger
}

type Option func(*Orchestrator)

// WithTimeout bounds a whole run, including the part that outlives the request.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func NewOrchestrator(store Store, assets AssetResolver, transcriber transcribe.Transcriber, generator Generator, notifier Notifier, log zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:       store,
		ledger:      NewLedger(store),
		assets:      assets,
		transcriber: transcriber,
		generator:   generator,
		notifier:    notifier,
		timeout:     DefaultTimeout,
		log:         log.With().Str("component", "pipeline").Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Prepare runs every step up to an open model stream. Errors returned here
// are reported to the caller as JSON; the podcast has already been marked
// failed when the error happened after it was loaded.
//
// The run continues on a context detached from ctx, so a caller that goes
// away mid-stream does not abort persistence.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (*Generation, error) {
	log := o.log.With().Str("user_id", req.UserID).Str("podcast_id", req.PodcastID).Logger()

	log.Info().Str("stage", StageAuthorizing).Msg("Processing podcast")
	if req.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.PodcastID) == "" {
		return nil, ErrMissingPodcastID
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
	g, err := o.prepare(runCtx, req, log)
	if err != nil {
		cancel()
		log.Error().Err(err).Str("stage", StageFailed).Msg("Processing failed")
		return nil, err
	}
	g.cancel = cancel
	return g, nil
}

func (o *Orchestrator) prepare(ctx context.Context, req Request, log zerolog.Logger) (*Generation, error) {
	log.Info().Str("stage", StageCheckingBalance).Msg("Checking balance")
	if err := o.ledger.Check(ctx, req.UserID); err != nil {
		return nil, err
	}

	log.Info().Str("stage", StageResolvingAsset).Msg("Resolving audio")
	podcast, err := o.store.GetPodcastForOwner(ctx, req.PodcastID, req.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrPodcastNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load podcast: %w", err)
	}

	obj, err := o.assets.Resolve(ctx, podcast.FileURL)
	if err != nil {
		if errors.Is(err, storage.ErrMalformedLocator) {
			err = fmt.Errorf("%w: %w", ErrMalformedLocator, err)
		} else {
			err = fmt.Errorf("%w: %w", ErrStorage, err)
		}
		o.markFailed(ctx, req, log)
		return nil, err
	}

	log.Info().Str("stage", StageTranscribing).Int("bytes", len(obj.Data)).Msg("Transcribing audio")
	transcript, err := o.transcriber.Transcribe(ctx, transcribe.Audio{Data: obj.Data, Filename: obj.Filename})
	if err != nil {
		o.markFailed(ctx, req, log)
		return nil, fmt.Errorf("%w: %w", ErrTranscription, err)
	}

	log.Info().Str("stage", StageGenerating).Int("transcript_chars", len(transcript)).Msg("Opening generation stream")
	stream, err := o.generator.Stream(ctx, generate.BuildPrompt(req.Tone, req.ContentLanguage), generate.UserContent(transcript))
	if err != nil {
		o.markFailed(ctx, req, log)
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return &Generation{
		o:          o,
		ctx:        ctx,
		req:        req,
		transcript: transcript,
		stream:     stream,
		log:        log,
	}, nil
}

// markFailed records a terminal failure. It uses its own deadline because
// the run context may be the thing that expired.
func (o *Orchestrator) markFailed(ctx context.Context, req Request, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markFailedTimeout)
	defer cancel()
	if err := o.store.UpdatePodcastStatus(ctx, req.PodcastID, req.UserID, db.StatusFailed); err != nil {
		log.Error().Err(err).Msg("Error marking podcast failed")
	}
}

// Generation is an open model stream waiting to be relayed.
type Generation struct {
	o          *Orchestrator
	ctx        context.Context
	cancel     context.CancelFunc
	req        Request
	transcript string
	stream     generate.ChunkStream
	log        zerolog.Logger
	text       strings.Builder
}

// Relay copies the model output to w while accumulating it, then persists
// the parsed result. A failing w stops the copy but not the run. The
// returned error is only for logging; the podcast status carries the outcome.
func (g *Generation) Relay(w io.Writer) error {
	defer g.cancel()

	clientGone := false
	for {
		chunk, err := g.stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = g.stream.Close()
			return g.fail(fmt.Errorf("%w: %w", ErrGeneration, err))
		}
		if chunk == "" {
			continue
		}
		g.text.WriteString(chunk)
		if clientGone {
			continue
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			clientGone = true
			g.log.Warn().Err(err).Msg("Client went away, finishing run without it")
		}
	}
	if err := g.stream.Close(); err != nil {
		g.log.Warn().Err(err).Msg("Error closing generation stream")
	}

	g.log.Info().Str("stage", StagePersisting).Int("output_chars", g.text.Len()).Msg("Saving generated content")
	sections := generate.Parse(g.text.String())
	err := g.o.store.SaveGeneration(g.ctx, db.Generation{
		UserID:    g.req.UserID,
		PodcastID: g.req.PodcastID,
		Outputs:   Outputs(g.transcript, sections),
		Credits:   CreditsPerRun,
	})
	if err != nil {
		return g.fail(fmt.Errorf("%w: %w", ErrPersistence, err))
	}

	if err := g.o.notifier.Notify(g.ctx, g.req.UserID, NotificationTitle, NotificationMessage); err != nil {
		g.log.Error().Err(err).Msg("Error sending completion notification")
	}

	g.log.Info().Str("stage", StageDone).Int("tweets", len(sections.Tweets)).Msg("Processing complete")
	return nil
}

// Text returns what the model produced so far.
func (g *Generation) Text() string {
	return g.text.String()
}

func (g *Generation) fail(err error) error {
	g.o.markFailed(g.ctx, g.req, g.log)
	g.log.Error().Err(err).Str("stage", StageFailed).Msg("Processing failed")
	return err
}
