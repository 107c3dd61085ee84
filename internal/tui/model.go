package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wavepark-dev/shift-console/internal/dashboard"
)

type tabID int

const (
	tabEmployees tabID = iota
	tabTasks
	tabShifts
	tabAssignments
	tabUsers
)

var tabNames = map[tabID]string{
	tabEmployees:   "员工",
	tabTasks:       "任务",
	tabShifts:      "班次",
	tabAssignments: "排班",
	tabUsers:       "用户",
}

type loadDoneMsg struct{ err error }

type actionDoneMsg struct{}

type Model struct {
	board    *dashboard.Dashboard
	recorder *Recorder

	tabs    []tabID
	tab     int
	cursors map[tabID]int

	form    *form
	loading bool
	width   int
	height  int
}

func NewModel(board *dashboard.Dashboard, recorder *Recorder) *Model {
	tabs := []tabID{tabEmployees, tabTasks, tabShifts, tabAssignments}
	if board.CanAdmin() {
		tabs = append(tabs, tabUsers)
	}

	return &Model{
		board:    board,
		recorder: recorder,
		tabs:     tabs,
		cursors:  map[tabID]int{},
		loading:  true,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.loadAllCmd()
}

func (m *Model) loadAllCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		return loadDoneMsg{err: m.board.LoadAll(ctx)}
	}
}

// actionCmd 在后台执行一次仪表盘操作，结果通过 Recorder 反映到状态栏
func (m *Model) actionCmd(action func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = action(ctx)
		return actionDoneMsg{}
	}
}

func (m *Model) currentTab() tabID {
	return m.tabs[m.tab]
}

func (m *Model) rowCount(tab tabID) int {
	switch tab {
	case tabEmployees:
		return len(m.board.Employees())
	case tabTasks:
		return len(m.board.Tasks())
	case tabShifts:
		return len(m.board.Shifts())
	case tabAssignments:
		return len(m.board.Assignments())
	case tabUsers:
		return len(m.board.Users())
	}
	return 0
}

func (m *Model) clampCursor() {
	tab := m.currentTab()
	count := m.rowCount(tab)
	if m.cursors[tab] >= count {
		m.cursors[tab] = count - 1
	}
	if m.cursors[tab] < 0 {
		m.cursors[tab] = 0
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadDoneMsg:
		m.loading = false
		m.clampCursor()
		return m, nil

	case actionDoneMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.form = nil
		return m, nil
	}

	done, cmd := m.form.update(msg)
	if !done {
		return m, cmd
	}

	f := m.form
	m.form = nil
	return m, m.submitForm(f)
}

func (m *Model) submitForm(f *form) tea.Cmd {
	switch f.kind {
	case formEmployee:
		payload := f.employeePayload()
		return m.actionCmd(func(ctx context.Context) error {
			return m.board.SubmitEmployee(ctx, payload)
		})
	case formTask:
		payload := f.taskPayload()
		return m.actionCmd(func(ctx context.Context) error {
			return m.board.SubmitTask(ctx, payload)
		})
	case formShift:
		payload, err := f.shiftPayload()
		if err != nil {
			m.board.SetActiveShift(nil)
			m.recorder.Error("表单内容无法解析: " + err.Error())
			return nil
		}
		return m.actionCmd(func(ctx context.Context) error {
			return m.board.SubmitShift(ctx, payload)
		})
	case formAssignment:
		payload, err := f.assignmentPayload()
		if err != nil {
			m.board.SetActiveAssignment(nil)
			m.recorder.Error("表单内容无法解析: " + err.Error())
			return nil
		}
		return m.actionCmd(func(ctx context.Context) error {
			return m.board.SubmitAssignment(ctx, payload)
		})
	case formUser:
		payload := f.userPayload()
		return m.actionCmd(func(ctx context.Context) error {
			return m.board.SubmitUser(ctx, payload)
		})
	}
	return nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab", "right", "l":
		m.tab = (m.tab + 1) % len(m.tabs)
		m.clampCursor()
		return m, nil

	case "shift+tab", "left", "h":
		m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
		m.clampCursor()
		return m, nil

	case "down", "j":
		tab := m.currentTab()
		if m.cursors[tab] < m.rowCount(tab)-1 {
			m.cursors[tab]++
		}
		return m, nil

	case "up", "k":
		tab := m.currentTab()
		if m.cursors[tab] > 0 {
			m.cursors[tab]--
		}
		return m, nil

	case "r":
		m.loading = true
		return m, m.loadAllCmd()

	case "n":
		return m.openCreateForm()

	case "e":
		return m.openEditForm()

	case "d":
		return m.deleteSelected()

	case "x":
		if !m.board.CanManage() {
			return m, nil
		}
		return m, m.actionCmd(func(ctx context.Context) error {
			return m.board.ExportAssignments(ctx, "assignments.csv", nil, nil)
		})
	}

	return m, nil
}

func (m *Model) openCreateForm() (tea.Model, tea.Cmd) {
	if !m.board.CanManage() {
		return m, nil
	}

	switch m.currentTab() {
	case tabEmployees:
		m.board.SetActiveEmployee(nil)
		m.form = newEmployeeForm(nil)
	case tabTasks:
		m.board.SetActiveTask(nil)
		m.form = newTaskForm(nil)
	case tabShifts:
		m.board.SetActiveShift(nil)
		m.form = newShiftForm(nil)
	case tabAssignments:
		m.board.SetActiveAssignment(nil)
		m.form = newAssignmentForm(nil)
	case tabUsers:
		if !m.board.CanAdmin() {
			return m, nil
		}
		m.form = newUserForm()
	}
	return m, nil
}

func (m *Model) openEditForm() (tea.Model, tea.Cmd) {
	if !m.board.CanManage() {
		return m, nil
	}

	tab := m.currentTab()
	cursor := m.cursors[tab]

	switch tab {
	case tabEmployees:
		employees := m.board.Employees()
		if cursor >= len(employees) {
			return m, nil
		}
		employee := employees[cursor]
		m.board.SetActiveEmployee(employee)
		m.form = newEmployeeForm(employee)
	case tabTasks:
		tasks := m.board.Tasks()
		if cursor >= len(tasks) {
			return m, nil
		}
		task := tasks[cursor]
		m.board.SetActiveTask(task)
		m.form = newTaskForm(task)
	case tabShifts:
		shifts := m.board.Shifts()
		if cursor >= len(shifts) {
			return m, nil
		}
		shift := shifts[cursor]
		m.board.SetActiveShift(shift)
		m.form = newShiftForm(shift)
	case tabAssignments:
		assignments := m.board.Assignments()
		if cursor >= len(assignments) {
			return m, nil
		}
		assignment := assignments[cursor]
		m.board.SetActiveAssignment(assignment)
		m.form = newAssignmentForm(assignment)
	case tabUsers:
		// 后端不提供用户更新接口
		return m, nil
	}
	return m, nil
}

func (m *Model) deleteSelected() (tea.Model, tea.Cmd) {
	if !m.board.CanManage() {
		return m, nil
	}

	tab := m.currentTab()
	cursor := m.cursors[tab]

	switch tab {
	case tabEmployees:
		employees := m.board.Employees()
		if cursor >= len(employees) {
			return m, nil
		}
		id := employees[cursor].ID
		return m, m.actionCmd(func(ctx context.Context) error {
			return m.board.RemoveEmployee(ctx, id)
		})
	case tabTasks:
		tasks := m.board.Tasks()
		if cursor >= len(tasks) {
			return m, nil
		}
		id := tasks[cursor].ID
		return m, m.actionCmd(func(ctx context.Context) error {
			return m.board.RemoveTask(ctx, id)
		})
	case tabShifts:
		shifts := m.board.Shifts()
		if cursor >= len(shifts) {
			return m, nil
		}
		id := shifts[cursor].ID
		return m, m.actionCmd(func(ctx context.Context) error {
			return m.board.RemoveShift(ctx, id)
		})
	case tabAssignments:
		assignments := m.board.Assignments()
		if cursor >= len(assignments) {
			return m, nil
		}
		id := assignments[cursor].ID
		return m, m.actionCmd(func(ctx context.Context) error {
			return m.board.RemoveAssignment(ctx, id)
		})
	}
	return m, nil
}
