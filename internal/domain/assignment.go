package domain

// ShiftAssignment 中的 Shift、Employee 和 Task 是服务端在读取时内联返回的副本，
// 客户端不会自行解析这些外键
type ShiftAssignment struct {
	ID           int64     `json:"id"`
	ShiftID      int64     `json:"shift_id"`
	EmployeeID   int64     `json:"employee_id"`
	TaskID       *int64    `json:"task_id,omitempty"`
	Note         *string   `json:"note,omitempty"`
	CheckInTime  *string   `json:"check_in_time,omitempty"`
	CheckOutTime *string   `json:"check_out_time,omitempty"`
	Shift        *Shift    `json:"shift"`
	Employee     *Employee `json:"employee"`
	Task         *Task     `json:"task,omitempty"`
}

type AssignmentPayload struct {
	ShiftID      int64   `json:"shift_id" validate:"required"`
	EmployeeID   int64   `json:"employee_id" validate:"required"`
	TaskID       *int64  `json:"task_id,omitempty"`
	Note         *string `json:"note,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
}

// AssignmentPatch 用于 PATCH 请求，只有非空字段会被提交
type AssignmentPatch struct {
	ShiftID      *int64  `json:"shift_id,omitempty"`
	EmployeeID   *int64  `json:"employee_id,omitempty"`
	TaskID       *int64  `json:"task_id,omitempty"`
	Note         *string `json:"note,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
}

// Patch 将完整的表单载荷转换为补丁，表单提交时所有字段都视为已提供
func (p *AssignmentPayload) Patch() *AssignmentPatch {
	return &AssignmentPatch{
		ShiftID:      &p.ShiftID,
		EmployeeID:   &p.EmployeeID,
		TaskID:       p.TaskID,
		Note:         p.Note,
		CheckInTime:  p.CheckInTime,
		CheckOutTime: p.CheckOutTime,
	}
}
