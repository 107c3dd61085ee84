package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/wavepark-dev/shift-console/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	statStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).
			Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))

	cursorRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("236"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	formStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

func (m *Model) View() string {
	if m.loading {
		return "\n  正在加载数据...\n"
	}

	sections := []string{
		m.viewHeader(),
		m.viewTabs(),
		m.viewRows(),
	}
	if m.form != nil {
		sections = append(sections, m.viewForm())
	}
	sections = append(sections, m.viewStatus())

	return strings.Join(sections, "\n") + "\n"
}

func (m *Model) viewHeader() string {
	user := m.board.User()
	title := titleStyle.Render("Wavepark 排班控制台")
	identity := statStyle.Render(fmt.Sprintf("%s (%s)", user.FullName, user.Role))

	activeStaff := map[int64]struct{}{}
	for _, assignment := range m.board.Assignments() {
		activeStaff[assignment.EmployeeID] = struct{}{}
	}

	stats := []string{
		fmt.Sprintf("班次 %d", len(m.board.Shifts())),
		fmt.Sprintf("覆盖 %d 小时", int(math.Round(m.board.TotalCoverageHours()))),
		fmt.Sprintf("在岗员工 %d", len(activeStaff)),
		fmt.Sprintf("任务 %d", len(m.board.Tasks())),
	}
	if next := m.board.UpcomingShift(time.Now()); next != nil {
		stats = append(stats, fmt.Sprintf("下一班 %s %s", next.Name, next.StartsAt.Format("01-02 15:04")))
	} else {
		stats = append(stats, "暂无后续班次")
	}

	return title + "  " + identity + "\n" + statStyle.Render(strings.Join(stats, " · "))
}

func (m *Model) viewTabs() string {
	rendered := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := tabStyle
		if i == m.tab {
			style = activeTabStyle
		}
		rendered = append(rendered, style.Render(tabNames[tab]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) viewRows() string {
	tab := m.currentTab()
	cursor := m.cursors[tab]

	rows := m.rowsFor(tab)
	if len(rows) == 0 {
		return statStyle.Render("  （空）")
	}

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		line := "  " + row
		if i == cursor {
			line = cursorRowStyle.Render("> " + row)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) rowsFor(tab tabID) []string {
	switch tab {
	case tabEmployees:
		employees := m.board.Employees()
		rows := make([]string, 0, len(employees))
		for _, e := range employees {
			rows = append(rows, fmt.Sprintf("#%-4d %-24s %s", e.ID, e.FullName(), deref(e.Position)))
		}
		return rows
	case tabTasks:
		tasks := m.board.Tasks()
		rows := make([]string, 0, len(tasks))
		for _, t := range tasks {
			rows = append(rows, fmt.Sprintf("#%-4d %-16s %s", t.ID, t.Name, deref(t.Description)))
		}
		return rows
	case tabShifts:
		shifts := m.board.Shifts()
		rows := make([]string, 0, len(shifts))
		for _, s := range shifts {
			rows = append(rows, fmt.Sprintf("#%-4d %-10s %-10s %s ~ %s 需 %d 人",
				s.ID, s.Name, s.Location,
				s.StartsAt.Format("01-02 15:04"), s.EndsAt.Format("15:04"), s.RequiredStaff))
		}
		return rows
	case tabAssignments:
		assignments := m.board.Assignments()
		rows := make([]string, 0, len(assignments))
		for _, a := range assignments {
			rows = append(rows, assignmentRow(a))
		}
		return rows
	case tabUsers:
		users := m.board.Users()
		rows := make([]string, 0, len(users))
		for _, u := range users {
			rows = append(rows, fmt.Sprintf("#%-4d %-24s %-10s %s", u.ID, u.Email, u.Role, u.FullName))
		}
		return rows
	}
	return nil
}

func assignmentRow(a *domain.ShiftAssignment) string {
	shiftName := strconv.FormatInt(a.ShiftID, 10)
	if a.Shift != nil {
		shiftName = a.Shift.Name
	}
	employeeName := strconv.FormatInt(a.EmployeeID, 10)
	if a.Employee != nil {
		employeeName = a.Employee.FullName()
	}
	taskName := "-"
	if a.Task != nil {
		taskName = a.Task.Name
	}
	return fmt.Sprintf("#%-4d %-10s %-16s %-12s %s", a.ID, shiftName, employeeName, taskName, deref(a.Note))
}

func (m *Model) viewForm() string {
	lines := []string{titleStyle.Render(m.form.title), ""}
	for _, field := range m.form.fields {
		lines = append(lines, fmt.Sprintf("%-8s %s", field.label, field.input.View()))
	}
	lines = append(lines, "", helpStyle.Render("enter 下一项/提交 · esc 取消"))
	return formStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewStatus() string {
	var parts []string

	if message, isError := m.recorder.Last(); message != "" {
		if isError {
			parts = append(parts, errorStyle.Render(message))
		} else {
			parts = append(parts, successStyle.Render(message))
		}
	}

	help := "←→ 切换 · ↑↓ 移动 · r 刷新 · q 退出"
	if m.board.CanManage() {
		help = "←→ 切换 · ↑↓ 移动 · n 新增 · e 编辑 · d 删除 · x 导出 · r 刷新 · q 退出"
	}
	parts = append(parts, helpStyle.Render(help))

	return strings.Join(parts, "\n")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
