package testserver

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/wavepark-dev/shift-console/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

/**********************************************
 * 用户
 **********************************************/

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, record := range s.users {
		users = append(users, record.user)
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	payload := &domain.UserPayload{}
	if err := s.readJSON(r, payload); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.users {
		if record.user.Email == payload.Email {
			s.detailError(w, http.StatusBadRequest, "Email already registered")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.MinCost)
	if err != nil {
		s.detailError(w, http.StatusInternalServerError, "Hashing failed")
		return
	}

	user := &domain.User{
		ID:       s.allocID(),
		Email:    payload.Email,
		FullName: payload.FullName,
		Role:     payload.Role,
	}
	s.users = append(s.users, &userRecord{user: user, passwordHash: string(hash)})

	s.writeJSON(w, http.StatusCreated, user)
}

/**********************************************
 * 员工
 **********************************************/

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, s.employees)
}

func (s *Server) createEmployee(w http.ResponseWriter, r *http.Request) {
	payload := &domain.EmployeePayload{}
	if err := s.readJSON(r, payload); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	employee := &domain.Employee{
		ID:        s.allocID(),
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Position:  payload.Position,
		Phone:     payload.Phone,
		Notes:     payload.Notes,
	}
	s.employees = append(s.employees, employee)

	s.writeJSON(w, http.StatusCreated, employee)
}

func (s *Server) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.detailError(w, http.StatusNotFound, "Employee not found")
		return
	}

	payload := &domain.EmployeePayload{}
	if err := s.readJSON(r, payload); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, employee := range s.employees {
		if employee.ID == id {
			employee.FirstName = payload.FirstName
			employee.LastName = payload.LastName
			employee.Position = payload.Position
			employee.Phone = payload.Phone
			employee.Notes = payload.Notes
			s.writeJSON(w, http.StatusOK, employee)
			return
		}
	}

	s.detailError(w, http.StatusNotFound, "Employee not found")
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.detailError(w, http.StatusNotFound, "Employee not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, employee := range s.employees {
		if employee.ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	s.detailError(w, http.StatusNotFound, "Employee not found")
}

/**********************************************
 * 任务
 **********************************************/

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, s.tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	payload := &domain.TaskPayload{}
	if err := s.readJSON(r, payload); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := &domain.Task{
		ID:                    s.allocID(),
		Name:                  payload.Name,
		Description:           payload.Description,
		CertificationRequired: payload.CertificationRequired,
	}
	s.tasks = append(s.tasks, task)

	s.writeJSON(w, http.StatusCreated, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.detailError(w, http.StatusNotFound, "Task not found")
		return
	}

	payload := &domain.TaskPayload{}
	if err := s.readJSON(r, payload); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, task := range s.tasks {
		if task.ID == id {
			task.Name = payload.Name
			task.Description = payload.Description
			task.CertificationRequired = payload.CertificationRequired
			s.writeJSON(w, http.StatusOK, task)
			return
		}
	}

	s.detailError(w, http.StatusNotFound, "Task not found")
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.detailError(w, http.StatusNotFound, "Task not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, task := range s.tasks {
		if task.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	s.detailError(w, http.StatusNotFound, "Task not found")
}

/**********************************************
 * 班次
 **********************************************/

func (s *Server) listShifts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, s.shifts)
}

func (s *Server) createShift(w http.ResponseWriter, r *http.Request) {
	payload := &domain.ShiftPayload{}
	if err := s.readJSON(r, payload); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shift := &domain.Shift{
		ID:            s.allocID(),
		Name:          payload.Name,
		Location:      payload.Location,
		StartsAt:      payload.StartsAt,
		EndsAt:        payload.EndsAt,
		RequiredStaff: payload.RequiredStaff,
	}
	s.shifts = append(s.shifts, shift)

	s.writeJSON(w, http.StatusCreated, shift)
}

func (s *Server) updateShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.detailError(w, http.StatusNotFound, "Shift not found")
		return
	}

	payload := &domain.ShiftPayload{}
	if err := s.readJSON(r, payload); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, shift := range s.shifts {
		if shift.ID == id {
			shift.Name = payload.Name
			shift.Location = payload.Location
			shift.StartsAt = payload.StartsAt
			shift.EndsAt = payload.EndsAt
			shift.RequiredStaff = payload.RequiredStaff
			s.writeJSON(w, http.StatusOK, shift)
			return
		}
	}

	s.detailError(w, http.StatusNotFound, "Shift not found")
}

func (s *Server) deleteShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.detailError(w, http.StatusNotFound, "Shift not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, shift := range s.shifts {
		if shift.ID == id {
			s.shifts = append(s.shifts[:i], s.shifts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	s.detailError(w, http.StatusNotFound, "Shift not found")
}

/**********************************************
 * 排班
 **********************************************/

func (s *Server) findShift(id int64) *domain.Shift {
	for _, shift := range s.shifts {
		if shift.ID == id {
			return shift
		}
	}
	return nil
}

func (s *Server) findEmployee(id int64) *domain.Employee {
	for _, employee := range s.employees {
		if employee.ID == id {
			return employee
		}
	}
	return nil
}

func (s *Server) findTask(id int64) *domain.Task {
	for _, task := range s.tasks {
		if task.ID == id {
			return task
		}
	}
	return nil
}

// embedJoins 在读取时内联关联实体的副本，模仿真实后端的连接查询
func (s *Server) embedJoins(assignment *domain.ShiftAssignment) {
	assignment.Shift = s.findShift(assignment.ShiftID)
	assignment.Employee = s.findEmployee(assignment.EmployeeID)
	if assignment.TaskID != nil {
		assignment.Task = s.findTask(*assignment.TaskID)
	} else {
		assignment.Task = nil
	}
}

func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, assignment := range s.assignments {
		s.embedJoins(assignment)
	}
	s.writeJSON(w, http.StatusOK, s.assignments)
}

func (s *Server) createAssignment(w http.ResponseWriter, r *http.Request) {
	payload := &domain.AssignmentPayload{}
	if err := s.readJSON(r, payload); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findShift(payload.ShiftID) == nil || s.findEmployee(payload.EmployeeID) == nil {
		s.detailError(w, http.StatusBadRequest, "Shift or employee not found")
		return
	}

	assignment := &domain.ShiftAssignment{
		ID:           s.allocID(),
		ShiftID:      payload.ShiftID,
		EmployeeID:   payload.EmployeeID,
		TaskID:       payload.TaskID,
		Note:         payload.Note,
		CheckInTime:  payload.CheckInTime,
		CheckOutTime: payload.CheckOutTime,
	}
	s.assignments = append(s.assignments, assignment)
	s.embedJoins(assignment)

	s.writeJSON(w, http.StatusCreated, assignment)
}

func (s *Server) patchAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.detailError(w, http.StatusNotFound, "Assignment not found")
		return
	}

	patch := &domain.AssignmentPatch{}
	if err := s.readJSON(r, patch); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, assignment := range s.assignments {
		if assignment.ID != id {
			continue
		}

		// 部分更新：只有提交的字段会被修改
		if patch.ShiftID != nil {
			assignment.ShiftID = *patch.ShiftID
		}
		if patch.EmployeeID != nil {
			assignment.EmployeeID = *patch.EmployeeID
		}
		if patch.TaskID != nil {
			assignment.TaskID = patch.TaskID
		}
		if patch.Note != nil {
			assignment.Note = patch.Note
		}
		if patch.CheckInTime != nil {
			assignment.CheckInTime = patch.CheckInTime
		}
		if patch.CheckOutTime != nil {
			assignment.CheckOutTime = patch.CheckOutTime
		}

		s.embedJoins(assignment)
		s.writeJSON(w, http.StatusOK, assignment)
		return
	}

	s.detailError(w, http.StatusNotFound, "Assignment not found")
}

func (s *Server) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.detailError(w, http.StatusNotFound, "Assignment not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, assignment := range s.assignments {
		if assignment.ID == id {
			s.assignments = append(s.assignments[:i], s.assignments[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	s.detailError(w, http.StatusNotFound, "Assignment not found")
}

/**********************************************
 * 报表
 **********************************************/

func (s *Server) exportAssignments(w http.ResponseWriter, r *http.Request) {
	var start, end *time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			start = &t
		}
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			end = &t
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)
	_ = writer.Write([]string{
		"Assignment ID", "Shift", "Location", "Start", "End",
		"Employee", "Task", "Note", "Check In", "Check Out",
	})

	for _, assignment := range s.assignments {
		s.embedJoins(assignment)
		shift := assignment.Shift
		if shift != nil && start != nil && shift.StartsAt.Before(*start) {
			continue
		}
		if shift != nil && end != nil && shift.EndsAt.After(*end) {
			continue
		}

		row := make([]string, 10)
		row[0] = strconv.FormatInt(assignment.ID, 10)
		if shift != nil {
			row[1] = shift.Name
			row[2] = shift.Location
			row[3] = shift.StartsAt.Format(time.RFC3339)
			row[4] = shift.EndsAt.Format(time.RFC3339)
		}
		if assignment.Employee != nil {
			row[5] = assignment.Employee.FullName()
		}
		if assignment.Task != nil {
			row[6] = assignment.Task.Name
		}
		if assignment.Note != nil {
			row[7] = *assignment.Note
		}
		if assignment.CheckInTime != nil {
			row[8] = *assignment.CheckInTime
		}
		if assignment.CheckOutTime != nil {
			row[9] = *assignment.CheckOutTime
		}
		_ = writer.Write(row)
	}
	writer.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=assignments.csv")
	_, _ = w.Write(buffer.Bytes())
}
