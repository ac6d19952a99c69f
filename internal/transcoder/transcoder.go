// Package transcoder converts documents between formats so the
// classifier and text pipeline always have a modern, inspectable file
// to work with, per spec.md §4.3.
package transcoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mdowning/batchkb/internal/errs"
)

// Engine converts one file to another format. Implementations never
// panic; a failed conversion is reported as an error, not a crash.
type Engine interface {
	// Name identifies the engine for logging and error messages.
	Name() string
	// Convert produces outputPath (already decided by the caller) from
	// inputPath. ctx governs the timeout.
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// ErrEngineUnavailable is returned by an Engine whose underlying
// facility isn't present on this host (e.g. the COM bridge outside
// Windows).
var ErrEngineUnavailable = errors.New("transcoder: engine unavailable on this platform")

// Transcoder tries each configured engine in order until one succeeds,
// mirroring spec.md §4.3's engine-selection chain: external headless
// office suite, platform automation bridge, then a native library path.
type Transcoder struct {
	engines []Engine
	timeout time.Duration
	tempDir string
	log     *slog.Logger
}

// New builds a Transcoder from an ordered engine chain. Callers building
// the production chain should pass ExternalEngine, COMEngine and the
// native engines in that order; tests can pass a subset.
func New(engines []Engine, timeout time.Duration, tempDir string, log *slog.Logger) *Transcoder {
	return &Transcoder{engines: engines, timeout: timeout, tempDir: tempDir, log: log}
}

// Transcode converts inputPath to targetExt, returning the path to a
// UUID-named temporary output file the caller owns and must remove.
func (t *Transcoder) Transcode(ctx context.Context, inputPath, targetExt string) (string, error) {
	if err := os.MkdirAll(t.tempDir, 0o755); err != nil {
		return "", &errs.TranscodeFailedError{
			Engine: "chain",
			Input:  inputPath,
			Reason: "create temp directory",
			Err:    err,
		}
	}
	outputPath := filepath.Join(t.tempDir, uuid.NewString()+targetExt)

	var lastErr error
	for _, eng := range t.engines {
		cctx, cancel := context.WithTimeout(ctx, t.timeout)
		err := eng.Convert(cctx, inputPath, outputPath)
		cancel()

		if err == nil {
			if _, statErr := os.Stat(outputPath); statErr == nil {
				return outputPath, nil
			}
			err = fmt.Errorf("engine %s reported success but produced no output", eng.Name())
		}

		if errors.Is(err, ErrEngineUnavailable) {
			t.log.Debug("transcoder: engine unavailable, trying next", "engine", eng.Name())
		} else {
			t.log.Warn("transcoder: engine failed, trying next", "engine", eng.Name(), "error", err)
		}
		lastErr = err
		_ = os.Remove(outputPath)
	}

	if lastErr == nil {
		lastErr = errors.New("no conversion engines configured")
	}
	return "", &errs.TranscodeFailedError{
		Engine: "chain",
		Input:  inputPath,
		Reason: "every engine in the chain failed",
		Err:    lastErr,
	}
}
