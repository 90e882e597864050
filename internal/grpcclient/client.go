// Package grpcclient adapts the external vision service to the engine
// interfaces consumed by the ocr and facematch packages.
package grpcclient

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/example/idverify/internal/facematch"
	"github.com/example/idverify/internal/logging"
	proto "github.com/example/idverify/internal/proto"
)

// Engines bundles the two views onto the same vision connection.
type Engines struct {
	OCR  *OCREngine
	Face *FaceEngine
}

// DialVision connects to the vision service and returns both engine
// adapters. The connection is shared; close it once.
func DialVision(ctx context.Context, addr string, logger *zap.Logger) (*Engines, *grpc.ClientConn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.dial_vision", "", err)
		logger.Error("failed to dial vision service", zap.Error(wrapped), zap.String("addr", addr))
		return nil, nil, wrapped
	}

	client := proto.NewVisionClient(conn)
	return &Engines{
		OCR:  &OCREngine{client: client, logger: logger},
		Face: &FaceEngine{client: client, logger: logger},
	}, conn, nil
}

// OCREngine implements ocr.Engine over the vision service.
type OCREngine struct {
	client proto.VisionClient
	logger *zap.Logger
}

// RecognizeText sends the binarized document to the vision service.
func (e *OCREngine) RecognizeText(ctx context.Context, binary *image.Gray) (string, error) {
	data, err := encodePNG(binary)
	if err != nil {
		return "", logging.NewOperationError("grpcclient.encode_document", "", err)
	}

	resp, err := e.client.RecognizeText(ctx, &proto.RecognizeTextRequest{ImageData: data})
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.recognize_text", "", err)
		e.logger.Error("vision recognize call failed", zap.Error(wrapped))
		return "", wrapped
	}
	return resp.GetText(), nil
}

// FaceEngine implements facematch.Engine over the vision service.
type FaceEngine struct {
	client proto.VisionClient
	logger *zap.Logger
}

// DetectFaces returns bounding regions in the vision service's own order.
func (e *FaceEngine) DetectFaces(ctx context.Context, img image.Image) ([]facematch.Region, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, logging.NewOperationError("grpcclient.encode_face_image", "", err)
	}

	resp, err := e.client.DetectFaces(ctx, &proto.DetectFacesRequest{ImageData: data})
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.detect_faces", "", err)
		e.logger.Error("vision detect call failed", zap.Error(wrapped))
		return nil, wrapped
	}

	regions := make([]facematch.Region, 0, len(resp.GetRegions()))
	for _, r := range resp.GetRegions() {
		regions = append(regions, facematch.Region{
			Top:    int(r.GetTop()),
			Right:  int(r.GetRight()),
			Bottom: int(r.GetBottom()),
			Left:   int(r.GetLeft()),
		})
	}
	return regions, nil
}

// Encode computes the biometric embedding for one detected region.
func (e *FaceEngine) Encode(ctx context.Context, img image.Image, region facematch.Region) (facematch.Encoding, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, logging.NewOperationError("grpcclient.encode_face_image", "", err)
	}

	resp, err := e.client.EncodeFace(ctx, &proto.EncodeFaceRequest{
		ImageData: data,
		Region: &proto.FaceRegion{
			Top:    int32(region.Top),
			Right:  int32(region.Right),
			Bottom: int32(region.Bottom),
			Left:   int32(region.Left),
		},
	})
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.encode_face", "", err)
		e.logger.Error("vision encode call failed", zap.Error(wrapped))
		return nil, wrapped
	}
	return facematch.Encoding(resp.GetEncoding()), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
