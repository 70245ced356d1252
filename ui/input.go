package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inputModel 请求用户输入一行文本（如新版本号）。
// enter 提交，esc 或 ctrl+c 取消。

type inputModel struct {
	message   string
	textInput textinput.Model
	done      bool
	canceled  bool
	styles    UIStyles
}

// newInputModel 创建初始模型并让输入框获得焦点。
func newInputModel(message, placeholder string) *inputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Focus()
	return &inputModel{
		message:   message,
		textInput: ti,
		styles:    DefaultStyles(),
	}
}

// Init 实现 tea.Model 接口
func (m *inputModel) Init() tea.Cmd { return textinput.Blink }

// Update 处理按键事件，除控制键外交给 textinput 处理。
func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View 渲染
func (m *inputModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("\n%s\n%s\n\n%s\n",
		m.styles.Title.Render(m.message),
		m.textInput.View(),
		m.styles.Help.Render("enter confirm, esc cancel"),
	)
}

// Value 返回裁剪首尾空白后的输入内容。
func (m *inputModel) Value() string {
	return strings.TrimSpace(m.textInput.Value())
}
