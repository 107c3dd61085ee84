package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wavepark-dev/shift-console/internal/domain"
)

type formKind int

const (
	formNone formKind = iota
	formEmployee
	formTask
	formShift
	formAssignment
	formUser
)

const formTimeLayout = "2006-01-02 15:04"

type formField struct {
	label string
	input textinput.Model
}

// form 是覆盖在列表之上的编辑层，回车逐项确认，最后一项回车提交
type form struct {
	kind   formKind
	title  string
	fields []formField
	focus  int
}

func newFormField(label string, value string, placeholder string) formField {
	input := textinput.New()
	input.Placeholder = placeholder
	input.SetValue(value)
	input.CharLimit = 120
	return formField{label: label, input: input}
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func int64Value(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func newEmployeeForm(employee *domain.Employee) *form {
	f := &form{kind: formEmployee, title: "员工"}
	var first, last, position, phone, notes string
	if employee != nil {
		f.title = "编辑员工"
		first, last = employee.FirstName, employee.LastName
		position = strValue(employee.Position)
		phone = strValue(employee.Phone)
		notes = strValue(employee.Notes)
	} else {
		f.title = "新增员工"
	}
	f.fields = []formField{
		newFormField("名", first, "Avery"),
		newFormField("姓", last, "Brooks"),
		newFormField("岗位", position, "救生员"),
		newFormField("电话", phone, ""),
		newFormField("备注", notes, ""),
	}
	f.focusField(0)
	return f
}

func newTaskForm(task *domain.Task) *form {
	f := &form{kind: formTask}
	var name, description, certification string
	if task != nil {
		f.title = "编辑任务"
		name = task.Name
		description = strValue(task.Description)
		certification = strValue(task.CertificationRequired)
	} else {
		f.title = "新增任务"
	}
	f.fields = []formField{
		newFormField("名称", name, "深水区瞭望"),
		newFormField("描述", description, ""),
		newFormField("所需证书", certification, ""),
	}
	f.focusField(0)
	return f
}

func newShiftForm(shift *domain.Shift) *form {
	f := &form{kind: formShift}
	var name, location, startsAt, endsAt, required string
	if shift != nil {
		f.title = "编辑班次"
		name = shift.Name
		location = shift.Location
		startsAt = shift.StartsAt.Format(formTimeLayout)
		endsAt = shift.EndsAt.Format(formTimeLayout)
		required = strconv.FormatInt(int64(shift.RequiredStaff), 10)
	} else {
		f.title = "新增班次"
	}
	f.fields = []formField{
		newFormField("名称", name, "早班"),
		newFormField("地点", location, "主泳池"),
		newFormField("开始时间", startsAt, formTimeLayout),
		newFormField("结束时间", endsAt, formTimeLayout),
		newFormField("所需人数", required, "3"),
	}
	f.focusField(0)
	return f
}

func newAssignmentForm(assignment *domain.ShiftAssignment) *form {
	f := &form{kind: formAssignment}
	var shiftID, employeeID, taskID, note, checkIn, checkOut string
	if assignment != nil {
		f.title = "编辑排班"
		shiftID = strconv.FormatInt(assignment.ShiftID, 10)
		employeeID = strconv.FormatInt(assignment.EmployeeID, 10)
		taskID = int64Value(assignment.TaskID)
		note = strValue(assignment.Note)
		checkIn = strValue(assignment.CheckInTime)
		checkOut = strValue(assignment.CheckOutTime)
	} else {
		f.title = "新增排班"
	}
	f.fields = []formField{
		newFormField("班次 ID", shiftID, "1"),
		newFormField("员工 ID", employeeID, "1"),
		newFormField("任务 ID", taskID, "留空表示不指定"),
		newFormField("备注", note, ""),
		newFormField("签到时间", checkIn, ""),
		newFormField("签退时间", checkOut, ""),
	}
	f.focusField(0)
	return f
}

func newUserForm() *form {
	f := &form{kind: formUser, title: "新增用户"}
	f.fields = []formField{
		newFormField("邮箱", "", "name@wavepark.local"),
		newFormField("姓名", "", ""),
		newFormField("角色", "", "admin / manager / viewer"),
		newFormField("密码", "", ""),
	}
	f.focusField(0)
	return f
}

func (f *form) focusField(i int) {
	f.focus = i
	for j := range f.fields {
		if j == i {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}

// update 处理表单内的按键，表单完成时返回 done=true
func (f *form) update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			if f.focus == len(f.fields)-1 {
				return true, nil
			}
			f.focusField(f.focus + 1)
			return false, nil
		case tea.KeyTab, tea.KeyDown:
			f.focusField((f.focus + 1) % len(f.fields))
			return false, nil
		case tea.KeyShiftTab, tea.KeyUp:
			f.focusField((f.focus + len(f.fields) - 1) % len(f.fields))
			return false, nil
		}
	}

	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return false, cmd
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

func (f *form) optionalValue(i int) *string {
	v := f.value(i)
	if v == "" {
		return nil
	}
	return &v
}

func (f *form) employeePayload() *domain.EmployeePayload {
	return &domain.EmployeePayload{
		FirstName: f.value(0),
		LastName:  f.value(1),
		Position:  f.optionalValue(2),
		Phone:     f.optionalValue(3),
		Notes:     f.optionalValue(4),
	}
}

func (f *form) taskPayload() *domain.TaskPayload {
	return &domain.TaskPayload{
		Name:                  f.value(0),
		Description:           f.optionalValue(1),
		CertificationRequired: f.optionalValue(2),
	}
}

func (f *form) shiftPayload() (*domain.ShiftPayload, error) {
	startsAt, err := time.ParseInLocation(formTimeLayout, f.value(2), time.Local)
	if err != nil {
		return nil, err
	}
	endsAt, err := time.ParseInLocation(formTimeLayout, f.value(3), time.Local)
	if err != nil {
		return nil, err
	}
	required, err := strconv.ParseInt(f.value(4), 10, 32)
	if err != nil {
		return nil, err
	}

	return &domain.ShiftPayload{
		Name:          f.value(0),
		Location:      f.value(1),
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		RequiredStaff: int32(required),
	}, nil
}

func (f *form) assignmentPayload() (*domain.AssignmentPayload, error) {
	shiftID, err := strconv.ParseInt(f.value(0), 10, 64)
	if err != nil {
		return nil, err
	}
	employeeID, err := strconv.ParseInt(f.value(1), 10, 64)
	if err != nil {
		return nil, err
	}

	var taskID *int64
	if raw := f.value(2); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		taskID = &id
	}

	return &domain.AssignmentPayload{
		ShiftID:      shiftID,
		EmployeeID:   employeeID,
		TaskID:       taskID,
		Note:         f.optionalValue(3),
		CheckInTime:  f.optionalValue(4),
		CheckOutTime: f.optionalValue(5),
	}, nil
}

func (f *form) userPayload() *domain.UserPayload {
	return &domain.UserPayload{
		Email:    f.value(0),
		FullName: f.value(1),
		Role:     domain.Role(f.value(2)),
		Password: f.value(3),
	}
}
