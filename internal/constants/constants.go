// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Capture constants
const (
	// DefaultCaptureWidth is the frame width delivered by the capture controller
	DefaultCaptureWidth = 640

	// DefaultCaptureHeight is the frame height delivered by the capture controller
	DefaultCaptureHeight = 480

	// FacingUser requests the front (selfie) camera
	FacingUser = "user"

	// DefaultJPEGQuality is the quality used when encoding captured frames
	DefaultJPEGQuality = 92
)

// Workflow constants
const (
	// EnrollRedirectDelay is how long a successful enrollment stays on screen
	EnrollRedirectDelay = 2 * time.Second

	// CheckInRedirectDelay is how long a successful check-in stays on screen
	CheckInRedirectDelay = 3 * time.Second
)

// Multipart upload file names expected by the verifier
const (
	EnrollImageFileName  = "face.jpg"
	CheckInImageFileName = "selfie.jpg"
)

// Listing constants
const (
	// DefaultAttendanceLimit mirrors the verifier's default page size
	DefaultAttendanceLimit = 50

	// DashboardAttendanceLimit is the number of attendances fetched for the dashboard
	DashboardAttendanceLimit = 10

	// DashboardRecentCount is the number of recent attendances shown on the dashboard
	DashboardRecentCount = 5
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100
)

// Batch constants
const (
	// DefaultBatchConcurrency is the default number of parallel enrollments
	DefaultBatchConcurrency = 4
)
