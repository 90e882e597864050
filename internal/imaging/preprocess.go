// Package imaging normalizes uploaded document photos into the binarized
// form the OCR engine expects. Decoding accepts anything the registered
// stdlib decoders handle (png, jpeg, gif).
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrInvalidImage reports bytes that cannot be decoded into a usable image.
var ErrInvalidImage = errors.New("invalid image")

// Decode turns raw upload bytes into a pixel buffer. Zero-dimension images
// are rejected alongside undecodable ones.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("%w: zero dimensions", ErrInvalidImage)
	}
	return img, nil
}

// Grayscale converts any image to a single-channel buffer.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// Binarize applies a global threshold chosen by Otsu's method, producing an
// image holding exactly the two levels 0 and 255. Dimensions are preserved.
func Binarize(gray *image.Gray) *image.Gray {
	threshold := otsuThreshold(gray)
	bounds := gray.Bounds()
	binary := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				binary.SetGray(x, y, color.Gray{Y: 255})
			} else {
				binary.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return binary
}

// Preprocess runs the full decode, grayscale and binarize pipeline.
func Preprocess(data []byte) (*image.Gray, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Binarize(Grayscale(img)), nil
}

// otsuThreshold picks the split that minimizes intra-class intensity
// variance, equivalently maximizing the between-class variance.
func otsuThreshold(gray *image.Gray) uint8 {
	var histogram [256]int
	bounds := gray.Bounds()
	total := bounds.Dx() * bounds.Dy()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			histogram[gray.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for level, count := range histogram {
		sum += float64(level) * float64(count)
	}

	var (
		sumBackground    float64
		weightBackground int
		bestVariance     float64
		bestThreshold    uint8
	)
	for level := 0; level < 256; level++ {
		weightBackground += histogram[level]
		if weightBackground == 0 {
			continue
		}
		weightForeground := total - weightBackground
		if weightForeground == 0 {
			break
		}

		sumBackground += float64(level) * float64(histogram[level])
		meanBackground := sumBackground / float64(weightBackground)
		meanForeground := (sum - sumBackground) / float64(weightForeground)

		diff := meanBackground - meanForeground
		variance := float64(weightBackground) * float64(weightForeground) * diff * diff
		if variance > bestVariance {
			bestVariance = variance
			bestThreshold = uint8(level)
		}
	}
	return bestThreshold
}
