package config

// Layout constants.
const (
	// MinProgressWidth is the narrowest progress bar drawn in the header.
	MinProgressWidth = 10

	// DefaultProgressWidth is used until the terminal size is known.
	DefaultProgressWidth = 30

	// MinNameWidth is the minimum width for task names in the list.
	MinNameWidth = 10

	// DefaultNameWidth is used until the terminal size is known.
	DefaultNameWidth = 40

	// RowChromeWidth reserves room for the cursor, marker and elapsed label.
	RowChromeWidth = 30
)

// Input constraints.
const (
	// MaxTaskNameLength is the maximum task name length accepted by the input.
	MaxTaskNameLength = 100

	// TruncationSuffix appended to truncated names.
	TruncationSuffix = "…"
)

// EventBuffer is the controller event channel size used by the TUI.
const EventBuffer = 32
