package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmButton 定义确认对话框的按钮索引
type confirmButton int

const (
	buttonYes confirmButton = iota
	buttonNo
)

// confirmModel 请求用户做一次是/否确认。
// 支持 y/n 快捷键，左右键切换按钮，enter 确认当前按钮。

type confirmModel struct {
	message   string
	confirmed bool
	canceled  bool
	done      bool
	selected  confirmButton
	width     int
	styles    UIStyles
}

// newConfirmModel 创建初始模型，defaultYes 决定初始高亮的按钮。
func newConfirmModel(message string, defaultYes bool) *confirmModel {
	selected := buttonNo
	if defaultYes {
		selected = buttonYes
	}
	return &confirmModel{
		message:  message,
		selected: selected,
		styles:   DefaultStyles(),
	}
}

// Init 实现 tea.Model 接口
func (m *confirmModel) Init() tea.Cmd { return nil }

// Update 处理按键事件
func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "n", "N", "q", "Q":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "left", "h", "right", "l", "tab":
			if m.selected == buttonYes {
				m.selected = buttonNo
			} else {
				m.selected = buttonYes
			}
		case "enter":
			m.confirmed = m.selected == buttonYes
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View 渲染
func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	colors := m.styles.Colors
	hintStyle := lipgloss.NewStyle().Foreground(colors.Gray)

	yes := RenderButton(Button{
		Hint:       "Y",
		Text:       "Yes",
		HintStyle:  hintStyle,
		TextStyle:  m.styles.Success,
		SelectedBg: colors.Green,
	}, m.selected == buttonYes)

	no := RenderButton(Button{
		Hint:       "N",
		Text:       "No",
		HintStyle:  hintStyle,
		TextStyle:  m.styles.Error,
		SelectedBg: colors.Red,
	}, m.selected == buttonNo)

	var b strings.Builder
	b.WriteString("\n" + wordWrap(m.message, CalculateContentWidth(m.width)) + "\n\n")
	b.WriteString("  " + lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no) + "\n")
	b.WriteString("\n" + m.styles.Help.Render("y/n shortcut, left/right switch, enter confirm, esc cancel") + "\n")
	return b.String()
}
