package ink

import "errors"

var (
	// ErrInvalidColor is returned when a color string cannot be parsed.
	ErrInvalidColor = errors.New("ink: invalid color")

	// ErrUnknownTool is returned when a tool name is not recognized.
	ErrUnknownTool = errors.New("ink: unknown tool")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("ink: invalid config")

	// ErrConfigFormat is returned by LoadConfig for unsupported file extensions.
	ErrConfigFormat = errors.New("ink: unsupported config format")
)
