// Package ocr turns document photos into raw text and structured identity
// fields. The recognition engine itself is external; this package owns
// preprocessing, timeouts, and parsing.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/example/idverify/internal/imaging"
	"github.com/example/idverify/internal/logging"
)

// ErrEngine reports that the recognition engine could not run at all
// (misconfiguration, transport failure, timeout). Empty output is not an
// engine error.
var ErrEngine = errors.New("ocr engine error")

// Engine is the external text-recognition service boundary.
type Engine interface {
	RecognizeText(ctx context.Context, binary *image.Gray) (string, error)
}

// Extractor binds the preprocessing pipeline to an Engine, bounding how many
// recognitions run at once. Recognition is CPU-bound on the engine side, so
// unbounded fan-out just queues work in the worst place.
type Extractor struct {
	engine Engine
	sem    *semaphore.Weighted
	logger *zap.Logger
}

// NewExtractor builds an Extractor allowing up to maxConcurrent engine calls.
func NewExtractor(engine Engine, maxConcurrent int64, logger *zap.Logger) *Extractor {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Extractor{
		engine: engine,
		sem:    semaphore.NewWeighted(maxConcurrent),
		logger: logger.Named("ocr_extractor"),
	}
}

// ExtractText preprocesses the document bytes and runs recognition. The
// caller's context bounds the whole call; deadline expiry surfaces as
// ErrEngine rather than a hung request.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	binary, err := imaging.Preprocess(data)
	if err != nil {
		return "", err
	}

	// Acquire's uncontended fast path ignores an already-dead context, so
	// check it explicitly: the engine must never be called past the deadline.
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngine, err)
	}
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngine, err)
	}
	defer e.sem.Release(1)

	text, err := e.engine.RecognizeText(ctx, binary)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrEngine, err)
		logging.WithOperation(e.logger, "ocr.recognize", "").Error("recognition failed", zap.Error(err))
		return "", wrapped
	}
	return text, nil
}

// ExtractIdentity is the full document pipeline: preprocess, recognize, parse.
func (e *Extractor) ExtractIdentity(ctx context.Context, data []byte) (ExtractedIdentity, error) {
	text, err := e.ExtractText(ctx, data)
	if err != nil {
		return ExtractedIdentity{}, err
	}
	return ParseIdentity(text), nil
}
