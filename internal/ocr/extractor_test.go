package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/idverify/internal/imaging"
)

type stubEngine struct {
	text     string
	err      error
	received *image.Gray
}

func (s *stubEngine) RecognizeText(ctx context.Context, binary *image.Gray) (string, error) {
	s.received = binary
	return s.text, s.err
}

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			level := uint8(240)
			if y == 5 {
				level = 10
			}
			img.SetGray(x, y, color.Gray{Y: level})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractTextPassesBinarizedImage(t *testing.T) {
	engine := &stubEngine{text: "Jane Doe\n1990-05-21"}
	extractor := NewExtractor(engine, 2, zap.NewNop())

	text, err := extractor.ExtractText(context.Background(), samplePNG(t))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n1990-05-21", text)

	require.NotNil(t, engine.received)
	assert.Equal(t, image.Rect(0, 0, 10, 10), engine.received.Bounds())
}

func TestExtractTextEmptyResultIsNotAnError(t *testing.T) {
	extractor := NewExtractor(&stubEngine{text: ""}, 2, zap.NewNop())

	text, err := extractor.ExtractText(context.Background(), samplePNG(t))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractTextInvalidImage(t *testing.T) {
	extractor := NewExtractor(&stubEngine{}, 2, zap.NewNop())

	_, err := extractor.ExtractText(context.Background(), []byte("not an image"))
	assert.ErrorIs(t, err, imaging.ErrInvalidImage)
}

func TestExtractTextEngineFailure(t *testing.T) {
	extractor := NewExtractor(&stubEngine{err: errors.New("engine offline")}, 2, zap.NewNop())

	_, err := extractor.ExtractText(context.Background(), samplePNG(t))
	assert.ErrorIs(t, err, ErrEngine)
}

func TestExtractTextCanceledContext(t *testing.T) {
	engine := &stubEngine{text: "ignored"}
	extractor := NewExtractor(engine, 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extractor.ExtractText(ctx, samplePNG(t))
	assert.ErrorIs(t, err, ErrEngine)
	assert.Nil(t, engine.received, "engine must not run with a dead context")
}

func TestExtractIdentityEndToEnd(t *testing.T) {
	extractor := NewExtractor(&stubEngine{text: "Jane Doe\nID:123\n1990-05-21"}, 2, zap.NewNop())

	identity, err := extractor.ExtractIdentity(context.Background(), samplePNG(t))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", identity.Name)
	require.NotNil(t, identity.DateOfBirth)
	assert.Equal(t, "1990-05-21", identity.DateOfBirth.Format("2006-01-02"))
}
