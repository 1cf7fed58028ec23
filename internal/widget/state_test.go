package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name string
		from State
		ev   Event
		want State
	}{
		{"select from empty", StateEmpty, EventSelect, StateFileSelected},
		{"drop from empty", StateEmpty, EventDrop, StateFileSelected},
		{"reselect", StateFileSelected, EventSelect, StateFileSelected},
		{"success keeps selection", StateFileSelected, EventSubmitSuccess, StateFileSelected},
		{"failure keeps selection", StateFileSelected, EventSubmitFailure, StateFileSelected},
		{"reset timer", StateFileSelected, EventResetTimer, StateEmpty},
		{"reset timer when empty", StateEmpty, EventResetTimer, StateEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.from, tt.ev))
		})
	}
}

func TestContentFor(t *testing.T) {
	empty := ContentFor(StateEmpty, DefaultMaxFileSize)
	assert.Equal(t, DropZoneContent{
		Icon: "📄",
		Text: "Clique ou arraste seu currículo aqui",
		Hint: "PDF, DOC ou DOCX (máx. 5MB)",
	}, empty)

	selected := ContentFor(StateFileSelected, DefaultMaxFileSize)
	assert.Equal(t, DropZoneContent{
		Icon:     "✅",
		Text:     "Currículo adicionado com sucesso!",
		Hint:     "Clique para alterar o arquivo",
		Uploaded: true,
	}, selected)

	assert.Equal(t, "PDF, DOC ou DOCX (máx. 10MB)", ContentFor(StateEmpty, 10*1024*1024).Hint)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "file_selected", StateFileSelected.String())
}
