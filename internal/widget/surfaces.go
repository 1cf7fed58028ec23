package widget

import "errors"

// DropZone is the click/drag target.
type DropZone interface {
	SetDragOver(active bool)
	SetContent(content DropZoneContent)
}

// Picker opens the native file chooser.
type Picker interface {
	Open()
}

// FileInfo displays the name and size of the chosen file.
type FileInfo interface {
	Show(text string)
	Hide()
}

// Form is the container holding the drop zone and submit control.
type Form interface {
	Show()
	Hide()
	// Reset clears the form fields, including the file input.
	Reset()
}

// Banner is a message that is either visible or not.
type Banner interface {
	Show()
	Hide()
}

// SubmitControl is the submit button.
type SubmitControl interface {
	SetEnabled(enabled bool)
	SetLabel(label string)
}

// ResultsPanel displays the extracted profile.
type ResultsPanel interface {
	Show(lines []ProfileLine)
	Hide()
}

// Alerter shows a blocking user-facing message.
type Alerter interface {
	Alert(message string)
}

// Surfaces are the view elements a Widget drives. Picker and Results
// are optional. Implementations must not call back into the Widget.
type Surfaces struct {
	DropZone      DropZone
	Picker        Picker
	FileInfo      FileInfo
	Form          Form
	SuccessBanner Banner
	Submit        SubmitControl
	Results       ResultsPanel
	Alerts        Alerter
}

func (s Surfaces) validate() error {
	switch {
	case s.DropZone == nil:
		return errors.New("widget: DropZone surface is required")
	case s.FileInfo == nil:
		return errors.New("widget: FileInfo surface is required")
	case s.Form == nil:
		return errors.New("widget: Form surface is required")
	case s.SuccessBanner == nil:
		return errors.New("widget: SuccessBanner surface is required")
	case s.Submit == nil:
		return errors.New("widget: Submit surface is required")
	case s.Alerts == nil:
		return errors.New("widget: Alerts surface is required")
	}
	return nil
}
