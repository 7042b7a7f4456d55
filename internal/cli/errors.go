package cli

import "errors"

var (
	errMissingFeedID = errors.New("cli: missing <feed-id> argument")
	errMissingStart  = errors.New("cli: --start is required")
	errMissingStep   = errors.New("cli: --step is required")
	errMissingWindow = errors.New("cli: --window is required")
	errWindowAndAll  = errors.New("cli: --window and --all are mutually exclusive")
)
