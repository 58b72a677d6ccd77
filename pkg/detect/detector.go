// Package detect provides face detection for lumafront using computer vision.
package detect

import "errors"

// ErrDetectionFailed indicates a single frame's inference failed.
// The frame's result is dropped; detection resumes on the next frame.
var ErrDetectionFailed = errors.New("detect: detection failed")

// Face is a detected face bounding box in frame-pixel space.
type Face struct {
	X, Y       int     // Top-left corner in frame pixels
	W, H       int     // Width and height in frame pixels
	Confidence float64 // Detection confidence (0-1)
}

// Area returns the area of the bounding box in square pixels.
func (f Face) Area() int {
	return f.W * f.H
}

// Detector is the interface for face detection backends.
type Detector interface {
	// Detect finds faces in a BGR frame of the given dimensions.
	Detect(frame []byte, width, height int) ([]Face, error)

	// Close releases resources.
	Close() error
}

// Config holds detector configuration.
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.6)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YuNet.
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.6,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// SelectLargest picks the face with the largest bounding-box area.
// Ties keep the earlier face in the detector's iteration order.
// Returns nil if the slice is empty.
func SelectLargest(faces []Face) *Face {
	if len(faces) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(faces); i++ {
		if faces[i].Area() > faces[best].Area() {
			best = i
		}
	}
	return &faces[best]
}
