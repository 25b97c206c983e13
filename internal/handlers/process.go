package handlers

import (
	"errors"
	"io"
	"net/http"

	"podcast-repurposer/internal/pipeline"
)

type processRequest struct {
	PodcastID       string `json:"podcastId"`
	Tone            string `json:"tone"`
	ContentLanguage string `json:"contentLanguage"`
}

// Process transcribes a podcast and streams the generated content back as
// plain text. Errors before the stream opens are JSON; later ones only show
// up as a cut stream and a failed podcast status.
func (h *Handlers) Process(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body processRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	gen, err := h.processor.Prepare(r.Context(), pipeline.Request{
		UserID:          user.ID,
		PodcastID:       body.PodcastID,
		Tone:            body.Tone,
		ContentLanguage: body.ContentLanguage,
	})
	if err != nil {
		writeError(w, pipeline.HTTPStatus(err), pipeline.PublicMessage(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := gen.Relay(newFlushWriter(w)); err != nil {
		h.log.Warn().Err(err).Str("podcast_id", body.PodcastID).Msg("Stream ended with error")
	}
}

// flushWriter pushes every chunk to the client as soon as it is written.
type flushWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

func newFlushWriter(w http.ResponseWriter) *flushWriter {
	return &flushWriter{w: w, rc: http.NewResponseController(w)}
}

func (f *flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	if err := f.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return n, err
	}
	return n, nil
}
