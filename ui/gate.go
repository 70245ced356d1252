// Package ui 提供会话所需的终端交互原语与展示组件。
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/penwyp/confit/internal/errors"
)

// Gate 是会话与用户交互的唯一入口，三个原语覆盖全部提示场景。
// 用户取消（esc / ctrl+c）统一以 context.Canceled 返回。
type Gate interface {
	// SelectFromList 让用户从列表中选择一项，defaultItem 为初始高亮项。
	SelectFromList(title string, items []string, defaultItem string) (string, error)
	// Confirm 请求一次是/否确认，defaultYes 决定初始高亮的按钮。
	Confirm(message string, defaultYes bool) (bool, error)
	// FreeText 请求用户输入一行文本。
	FreeText(message, placeholder string) (string, error)
}

// TerminalGate 通过 bubbletea 在终端上驱动各交互原语。
type TerminalGate struct{}

// NewTerminalGate 创建终端交互网关。
func NewTerminalGate() *TerminalGate {
	return &TerminalGate{}
}

func (g *TerminalGate) SelectFromList(title string, items []string, defaultItem string) (string, error) {
	out, err := tea.NewProgram(newSelectModel(title, items, defaultItem)).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrTypeUnknown, "selection prompt failed", err)
	}
	m := out.(*selectModel)
	if m.canceled {
		return "", context.Canceled
	}
	return m.Choice(), nil
}

func (g *TerminalGate) Confirm(message string, defaultYes bool) (bool, error) {
	out, err := tea.NewProgram(newConfirmModel(message, defaultYes)).Run()
	if err != nil {
		return false, errors.Wrap(errors.ErrTypeUnknown, "confirmation prompt failed", err)
	}
	m := out.(*confirmModel)
	if m.canceled {
		return false, context.Canceled
	}
	return m.confirmed, nil
}

func (g *TerminalGate) FreeText(message, placeholder string) (string, error) {
	out, err := tea.NewProgram(newInputModel(message, placeholder)).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrTypeUnknown, "input prompt failed", err)
	}
	m := out.(*inputModel)
	if m.canceled {
		return "", context.Canceled
	}
	return m.Value(), nil
}

// AutoGate 在非交互模式（--yes）下静默应答所有提示：
// 列表取默认项，确认一律通过，自由输入无法应答故直接报错。
type AutoGate struct{}

func (AutoGate) SelectFromList(_ string, _ []string, defaultItem string) (string, error) {
	return defaultItem, nil
}

func (AutoGate) Confirm(string, bool) (bool, error) {
	return true, nil
}

func (AutoGate) FreeText(string, string) (string, error) {
	return "", errors.New(errors.ErrTypeValidation, "cannot prompt for input in non-interactive mode").
		WithSuggestion("Pass --sdk-version explicitly when running with --yes.")
}
