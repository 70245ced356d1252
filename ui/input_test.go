package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestNewInputModel(t *testing.T) {
	model := newInputModel("Enter a version", "1.2.3")

	require.Equal(t, "Enter a version", model.message)
	require.Equal(t, "1.2.3", model.textInput.Placeholder)
	require.False(t, model.done)
	require.Empty(t, model.Value())
}

func TestInputModel_Update_Typing(t *testing.T) {
	model := newInputModel("Enter a version", "1.2.3")

	var updated tea.Model = model
	for _, r := range "2.1.0" {
		updated, _ = updated.Update(keyRune(r))
	}

	require.Equal(t, "2.1.0", updated.(*inputModel).Value())
}

func TestInputModel_Update_Enter(t *testing.T) {
	model := newInputModel("Enter a version", "")

	var updated tea.Model = model
	for _, r := range "  3.0.0 " {
		updated, _ = updated.Update(keyRune(r))
	}
	updated, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyEnter})
	im := updated.(*inputModel)

	require.True(t, im.done)
	require.False(t, im.canceled)
	// Value 裁剪首尾空白。
	require.Equal(t, "3.0.0", im.Value())
	require.NotNil(t, cmd)
}

func TestInputModel_Update_Cancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEscape}} {
		model := newInputModel("Enter a version", "")
		updated, cmd := model.Update(key)
		im := updated.(*inputModel)

		require.True(t, im.done)
		require.True(t, im.canceled)
		require.NotNil(t, cmd)
	}
}

func TestInputModel_View(t *testing.T) {
	model := newInputModel("Enter a version", "1.2.3")
	view := model.View()

	require.Contains(t, view, "Enter a version")
	require.Contains(t, view, "1.2.3") // placeholder 在输入为空时可见
	require.Contains(t, view, "enter confirm")
}

func TestInputModel_View_DoneIsEmpty(t *testing.T) {
	model := newInputModel("m", "")
	model.done = true
	require.Empty(t, model.View())
}

// Test that inputModel implements tea.Model interface
var _ tea.Model = (*inputModel)(nil)
