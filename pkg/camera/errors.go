package camera

import "errors"

// Sentinel errors for the camera package.
var (
	// ErrDeviceNotFound indicates no front-facing camera could be resolved.
	// Monitoring becomes permanently inert when this is returned.
	ErrDeviceNotFound = errors.New("camera: no front-facing camera found")

	// ErrCameraUnavailable indicates a capture session could not be acquired.
	ErrCameraUnavailable = errors.New("camera: camera unavailable")

	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("camera: already started")
)
