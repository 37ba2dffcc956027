package cli

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Terminal dimensions
	Width  int
	Height int
}

// chromeLines is the height of the header, notice line and status bar.
const chromeLines = 6

// ContentHeight is the number of lines available to the active view.
func (s *SharedState) ContentHeight() int {
	return max(s.Height-chromeLines, 5)
}
