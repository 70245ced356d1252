package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// selectModel 让用户从版本列表中选中一项。
// 支持上下键 / j k 移动光标，enter 确认，esc 或 ctrl+c 取消。

type selectModel struct {
	title    string
	items    []string
	cursor   int
	done     bool
	canceled bool
	width    int
	styles   UIStyles
}

// newSelectModel 创建初始模型，光标落在 defaultItem 上。
func newSelectModel(title string, items []string, defaultItem string) *selectModel {
	cursor := 0
	for i, item := range items {
		if item == defaultItem {
			cursor = i
			break
		}
	}
	return &selectModel{
		title:  title,
		items:  items,
		cursor: cursor,
		styles: DefaultStyles(),
	}
}

// Init 实现 tea.Model 接口
func (m *selectModel) Init() tea.Cmd { return nil }

// Update 处理按键事件
func (m *selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q", "Q":
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case "up", "k":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.items) - 1
			}
		case "down", "j":
			m.cursor++
			if m.cursor >= len(m.items) {
				m.cursor = 0
			}
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View 渲染
func (m *selectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n" + m.styles.Title.Render(m.title) + "\n\n")

	maxItemWidth := CalculateContentWidth(m.width) - 4
	for i, item := range m.items {
		label := truncateContent(item, maxItemWidth)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s\n", m.styles.Cursor.Render("❯"), m.styles.Version.Render(label)))
		} else {
			b.WriteString(fmt.Sprintf("    %s\n", label))
		}
	}

	b.WriteString("\n" + m.styles.Help.Render("up/down navigate, enter select, esc cancel") + "\n")
	return b.String()
}

// Choice 返回光标所在的条目。
func (m *selectModel) Choice() string {
	if len(m.items) == 0 {
		return ""
	}
	return m.items[m.cursor]
}
