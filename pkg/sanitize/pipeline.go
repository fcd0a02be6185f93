package sanitize

import (
	"log/slog"

	"github.com/jwebster45206/story-forge/pkg/document"
)

// Pipeline is the boundary the generation layer calls before
// persisting any document. SanitizeForDisk never fails: it degrades
// through corrected text, sanitized text and finally the original raw
// text, logging the path taken.
type Pipeline struct {
	corrector *Corrector
	log       *slog.Logger
}

// NewPipeline creates a sanitization pipeline.
func NewPipeline(log *slog.Logger) *Pipeline {
	return &Pipeline{
		corrector: NewCorrector(),
		log:       log,
	}
}

// NewPipelineWithCorrector creates a pipeline around an existing
// corrector, letting callers tune the repair bound.
func NewPipelineWithCorrector(corrector *Corrector, log *slog.Logger) *Pipeline {
	return &Pipeline{
		corrector: corrector,
		log:       log,
	}
}

// SanitizeForDisk sanitizes and corrects raw generated text, returning
// the best text available for persistence. Fallback order: corrected
// and valid, corrected but invalid, sanitized only, original raw.
func (p *Pipeline) SanitizeForDisk(raw string, kind document.Kind) (out string) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Sanitization panicked, falling back to raw text",
				"kind", kind, "panic", r)
			out = raw
		}
	}()

	sanitized := document.StripWrapping(raw)
	result := p.corrector.Correct(raw, kind)

	switch {
	case result.IsValid():
		if len(result.Corrections) > 0 {
			p.log.Info("Document corrected before persisting",
				"kind", kind, "corrections", len(result.Corrections))
		} else {
			p.log.Debug("Document valid as generated", "kind", kind)
		}
		return result.Text()
	case result.Text() != "":
		p.log.Warn("Document could not be fully corrected, persisting best-effort text",
			"kind", kind,
			"corrections", len(result.Corrections),
			"remaining_errors", len(result.Errors))
		return result.Text()
	case sanitized != "":
		p.log.Warn("Correction produced no text, persisting sanitized text", "kind", kind)
		return sanitized
	default:
		p.log.Warn("Sanitization produced no text, persisting original raw text", "kind", kind)
		return raw
	}
}
