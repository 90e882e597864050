// Package facematch decides whether two images depict the same face. Face
// detection and embedding run on an external engine; the distance math and
// the never-throw comparison contract live here.
package facematch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/idverify/internal/imaging"
)

// DefaultTolerance is the operating point for accepting a match. Lower is
// stricter: fewer false accepts, more false rejects.
const DefaultTolerance = 0.5

// Stable machine codes carried on MatchResult for expected failure modes.
const (
	CodeImageLoadError       = "IMAGE_LOAD_ERROR"
	CodeNoFaceDetected       = "NO_FACE_DETECTED"
	CodeFaceDetectionTimeout = "FACE_DETECTION_TIMEOUT"
	CodeEngineError          = "FACE_ENGINE_ERROR"
)

// Region is a face bounding box reported by the detection engine.
type Region struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Encoding is a fixed-length biometric embedding. Distance between encodings
// approximates facial dissimilarity.
type Encoding []float64

// Engine is the external face detection and embedding boundary.
type Engine interface {
	DetectFaces(ctx context.Context, img image.Image) ([]Region, error)
	Encode(ctx context.Context, img image.Image, region Region) (Encoding, error)
}

// MatchResult is the outcome of one comparison. Expected failures (bad
// image, no face, timeout) are encoded here rather than returned as errors,
// so callers can map outcomes to responses without exception-style control
// flow. It is never persisted.
type MatchResult struct {
	IsMatch  bool
	Distance *float64
	Code     string
	Error    string
}

func failure(code, message string) MatchResult {
	return MatchResult{Code: code, Error: message}
}

// Distance is the Euclidean distance between two encodings. Mismatched
// lengths compare as infinitely far apart.
func Distance(a, b Encoding) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// CompareEncodings applies the tolerance decision to two embeddings.
func CompareEncodings(a, b Encoding, tolerance float64) MatchResult {
	distance := Distance(a, b)
	return MatchResult{
		IsMatch:  distance <= tolerance,
		Distance: &distance,
	}
}

// Matcher runs the end-to-end comparison pipeline against an Engine,
// bounding concurrent engine calls.
type Matcher struct {
	engine    Engine
	sem       *semaphore.Weighted
	tolerance float64
	logger    *zap.Logger
}

// NewMatcher builds a Matcher. A non-positive tolerance falls back to
// DefaultTolerance; a non-positive maxConcurrent falls back to 4.
func NewMatcher(engine Engine, tolerance float64, maxConcurrent int64, logger *zap.Logger) *Matcher {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Matcher{
		engine:    engine,
		sem:       semaphore.NewWeighted(maxConcurrent),
		tolerance: tolerance,
		logger:    logger.Named("face_matcher"),
	}
}

// Tolerance reports the configured decision threshold.
func (m *Matcher) Tolerance() float64 {
	return m.tolerance
}

// CompareImages loads both images, detects and encodes the first face in
// each, and compares the embeddings. Every expected failure mode (bytes
// that do not decode, images without a face, engine deadline) comes back
// inside the MatchResult; this function never panics outward and never
// returns a Go error.
func (m *Matcher) CompareImages(ctx context.Context, a, b []byte) (result MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("face comparison panicked", zap.Any("panic", r))
			result = failure(CodeEngineError, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	imgA, err := imaging.Decode(a)
	if err != nil {
		return failure(CodeImageLoadError, "error loading first image")
	}
	imgB, err := imaging.Decode(b)
	if err != nil {
		return failure(CodeImageLoadError, "error loading second image")
	}

	// Acquire's uncontended fast path ignores an already-dead context, so
	// check it explicitly before touching the engine.
	if err := ctx.Err(); err != nil {
		return m.engineFailure(err, "face comparison aborted")
	}
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return m.engineFailure(err, "face comparison aborted")
	}
	defer m.sem.Release(1)

	encodingA, res := m.encodeFirstFace(ctx, imgA, "first")
	if res != nil {
		return *res
	}
	encodingB, res := m.encodeFirstFace(ctx, imgB, "second")
	if res != nil {
		return *res
	}

	return CompareEncodings(encodingA, encodingB, m.tolerance)
}

// encodeFirstFace detects faces and encodes the first region found. Which
// face is "first" is left to the detector's internal ordering on purpose; no
// best-face selection happens here.
func (m *Matcher) encodeFirstFace(ctx context.Context, img image.Image, which string) (Encoding, *MatchResult) {
	regions, err := m.engine.DetectFaces(ctx, img)
	if err != nil {
		res := m.engineFailure(err, "face detection failed")
		return nil, &res
	}
	if len(regions) == 0 {
		res := failure(CodeNoFaceDetected, fmt.Sprintf("no face found in %s image", which))
		return nil, &res
	}

	encoding, err := m.engine.Encode(ctx, img, regions[0])
	if err != nil {
		res := m.engineFailure(err, "face encoding failed")
		return nil, &res
	}
	return encoding, nil
}

// engineFailure maps an engine or context error onto a result code. Deadline
// expiry arrives either as a context error or as a grpc DeadlineExceeded
// status, which does not unwrap to context.DeadlineExceeded. Cancellation is
// not a timeout and reports as an engine failure.
func (m *Matcher) engineFailure(err error, message string) MatchResult {
	if errors.Is(err, context.DeadlineExceeded) || status.Code(err) == codes.DeadlineExceeded {
		return failure(CodeFaceDetectionTimeout, "face detection timed out")
	}
	m.logger.Error(message, zap.Error(err))
	return failure(CodeEngineError, message)
}
