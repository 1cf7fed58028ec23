package widget

import "fmt"

// State is the drop zone's display state.
type State int

const (
	// StateEmpty shows the call to action.
	StateEmpty State = iota
	// StateFileSelected confirms a chosen file.
	StateFileSelected
)

func (s State) String() string {
	if s == StateFileSelected {
		return "file_selected"
	}
	return "empty"
}

// Event is an input that may move the drop zone between states.
type Event int

const (
	EventSelect Event = iota
	EventDrop
	EventSubmitSuccess
	EventSubmitFailure
	EventResetTimer
)

// Transition returns the state after ev. Submit outcomes leave the drop
// zone as it is; only the reset timer returns it to empty.
func Transition(s State, ev Event) State {
	switch ev {
	case EventSelect, EventDrop:
		return StateFileSelected
	case EventResetTimer:
		return StateEmpty
	default:
		return s
	}
}

// DropZoneContent is the icon, text and hint shown in the drop zone.
type DropZoneContent struct {
	Icon     string
	Text     string
	Hint     string
	Uploaded bool
}

// ContentFor returns what the drop zone displays in state s.
func ContentFor(s State, limit int64) DropZoneContent {
	if s == StateFileSelected {
		return DropZoneContent{
			Icon:     selectedIcon,
			Text:     selectedText,
			Hint:     selectedHint,
			Uploaded: true,
		}
	}
	return DropZoneContent{
		Icon: emptyIcon,
		Text: emptyText,
		Hint: fmt.Sprintf(emptyHintFormat, sizeLabel(limit)),
	}
}
