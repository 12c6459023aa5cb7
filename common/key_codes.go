package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyR     = 82  // R key (ASCII), restart
	KeySpace = 32  // Spacebar (ASCII), shoot
	KeyEsc   = 256 // Escape key (GLFW)

	Key1 = 49 // 1 key (ASCII), "cube"
	Key2 = 50 // 2 key (ASCII), "sphere"
	Key3 = 51 // 3 key (ASCII), "torus"
	Key4 = 52 // 4 key (ASCII), "pyramid"
)
