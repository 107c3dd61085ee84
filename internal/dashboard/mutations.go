package dashboard

import (
	"context"
	"log/slog"

	"github.com/wavepark-dev/shift-console/internal/domain"
)

// 每个提交处理器的约定：无论成功还是失败，结束时都清除正在编辑的实体指针，
// 并发出一条成功或失败的通知；失败的编辑不会恢复表单内容

func (d *Dashboard) SetActiveEmployee(e *domain.Employee) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activeEmployee = e
}

func (d *Dashboard) ActiveEmployee() *domain.Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.activeEmployee
}

func (d *Dashboard) SubmitEmployee(ctx context.Context, payload *domain.EmployeePayload) error {
	active := d.ActiveEmployee()
	defer d.SetActiveEmployee(nil)

	if err := d.validatePayload(payload); err != nil {
		d.notifier.Error(err.Error())
		return err
	}

	if active != nil {
		updated, err := d.repo.UpdateEmployee(ctx, active.ID, payload)
		if err != nil {
			d.notifier.Error("保存员工失败")
			return err
		}
		d.patchEmployee(updated)
		d.notifier.Success("员工已更新")
		return nil
	}

	created, err := d.repo.CreateEmployee(ctx, payload)
	if err != nil {
		d.notifier.Error("保存员工失败")
		return err
	}

	d.mu.Lock()
	d.employees = append(d.employees, created)
	d.mu.Unlock()

	d.notifier.Success("已添加新员工")
	return nil
}

func (d *Dashboard) patchEmployee(updated *domain.Employee) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, item := range d.employees {
		if item.ID == updated.ID {
			d.employees[i] = updated
			return
		}
	}
	// 正常操作下不应该出现，留下日志便于排查
	slog.Warn("更新后的员工不在本地集合中", "id", updated.ID)
}

func (d *Dashboard) RemoveEmployee(ctx context.Context, id int64) error {
	if err := d.repo.DeleteEmployee(ctx, id); err != nil {
		d.notifier.Error("删除员工失败")
		return err
	}

	d.mu.Lock()
	filtered := make([]*domain.Employee, 0, len(d.employees))
	for _, item := range d.employees {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	d.employees = filtered
	d.mu.Unlock()

	d.notifier.Success("员工已删除")
	return nil
}

func (d *Dashboard) SetActiveTask(t *domain.Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activeTask = t
}

func (d *Dashboard) ActiveTask() *domain.Task {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.activeTask
}

func (d *Dashboard) SubmitTask(ctx context.Context, payload *domain.TaskPayload) error {
	active := d.ActiveTask()
	defer d.SetActiveTask(nil)

	if err := d.validatePayload(payload); err != nil {
		d.notifier.Error(err.Error())
		return err
	}

	if active != nil {
		updated, err := d.repo.UpdateTask(ctx, active.ID, payload)
		if err != nil {
			d.notifier.Error("保存任务失败")
			return err
		}
		d.patchTask(updated)
		d.notifier.Success("任务已更新")
		return nil
	}

	created, err := d.repo.CreateTask(ctx, payload)
	if err != nil {
		d.notifier.Error("保存任务失败")
		return err
	}

	d.mu.Lock()
	d.tasks = append(d.tasks, created)
	d.mu.Unlock()

	d.notifier.Success("已添加新任务")
	return nil
}

func (d *Dashboard) patchTask(updated *domain.Task) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, item := range d.tasks {
		if item.ID == updated.ID {
			d.tasks[i] = updated
			return
		}
	}
	slog.Warn("更新后的任务不在本地集合中", "id", updated.ID)
}

func (d *Dashboard) RemoveTask(ctx context.Context, id int64) error {
	if err := d.repo.DeleteTask(ctx, id); err != nil {
		d.notifier.Error("删除任务失败")
		return err
	}

	d.mu.Lock()
	filtered := make([]*domain.Task, 0, len(d.tasks))
	for _, item := range d.tasks {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	d.tasks = filtered
	d.mu.Unlock()

	d.notifier.Success("任务已删除")
	return nil
}

func (d *Dashboard) SetActiveShift(s *domain.Shift) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activeShift = s
}

func (d *Dashboard) ActiveShift() *domain.Shift {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.activeShift
}

func (d *Dashboard) SubmitShift(ctx context.Context, payload *domain.ShiftPayload) error {
	active := d.ActiveShift()
	defer d.SetActiveShift(nil)

	if err := d.validatePayload(payload); err != nil {
		d.notifier.Error(err.Error())
		return err
	}

	if active != nil {
		updated, err := d.repo.UpdateShift(ctx, active.ID, payload)
		if err != nil {
			d.notifier.Error("保存班次失败")
			return err
		}
		d.patchShift(updated)
		d.notifier.Success("班次已更新")
		return nil
	}

	created, err := d.repo.CreateShift(ctx, payload)
	if err != nil {
		d.notifier.Error("保存班次失败")
		return err
	}

	d.mu.Lock()
	d.shifts = append(d.shifts, created)
	d.mu.Unlock()

	d.notifier.Success("已添加新班次")
	return nil
}

func (d *Dashboard) patchShift(updated *domain.Shift) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, item := range d.shifts {
		if item.ID == updated.ID {
			d.shifts[i] = updated
			return
		}
	}
	slog.Warn("更新后的班次不在本地集合中", "id", updated.ID)
}

func (d *Dashboard) RemoveShift(ctx context.Context, id int64) error {
	if err := d.repo.DeleteShift(ctx, id); err != nil {
		d.notifier.Error("删除班次失败")
		return err
	}

	d.mu.Lock()
	filtered := make([]*domain.Shift, 0, len(d.shifts))
	for _, item := range d.shifts {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	d.shifts = filtered
	d.mu.Unlock()

	d.notifier.Success("班次已删除")
	return nil
}

func (d *Dashboard) SetActiveAssignment(a *domain.ShiftAssignment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activeAssignment = a
}

func (d *Dashboard) ActiveAssignment() *domain.ShiftAssignment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.activeAssignment
}

func (d *Dashboard) SubmitAssignment(ctx context.Context, payload *domain.AssignmentPayload) error {
	active := d.ActiveAssignment()
	defer d.SetActiveAssignment(nil)

	if err := d.validatePayload(payload); err != nil {
		d.notifier.Error(err.Error())
		return err
	}

	if active != nil {
		// 表单提交时所有字段都视为已提供，整体转换为补丁
		updated, err := d.repo.UpdateAssignment(ctx, active.ID, payload.Patch())
		if err != nil {
			d.notifier.Error("保存排班失败")
			return err
		}
		d.patchAssignment(updated)
		d.notifier.Success("排班已更新")
		return nil
	}

	created, err := d.repo.CreateAssignment(ctx, payload)
	if err != nil {
		d.notifier.Error("保存排班失败")
		return err
	}

	d.mu.Lock()
	d.assignments = append(d.assignments, created)
	d.mu.Unlock()

	d.notifier.Success("已创建新排班")
	return nil
}

func (d *Dashboard) patchAssignment(updated *domain.ShiftAssignment) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, item := range d.assignments {
		if item.ID == updated.ID {
			d.assignments[i] = updated
			return
		}
	}
	slog.Warn("更新后的排班不在本地集合中", "id", updated.ID)
}

func (d *Dashboard) RemoveAssignment(ctx context.Context, id int64) error {
	if err := d.repo.DeleteAssignment(ctx, id); err != nil {
		d.notifier.Error("删除排班失败")
		return err
	}

	d.mu.Lock()
	filtered := make([]*domain.ShiftAssignment, 0, len(d.assignments))
	for _, item := range d.assignments {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	d.assignments = filtered
	d.mu.Unlock()

	d.notifier.Success("排班已删除")
	return nil
}

func (d *Dashboard) SubmitUser(ctx context.Context, payload *domain.UserPayload) error {
	if err := d.validatePayload(payload); err != nil {
		d.notifier.Error(err.Error())
		return err
	}

	created, err := d.repo.CreateUser(ctx, payload)
	if err != nil {
		d.notifier.Error("创建用户失败")
		return err
	}

	d.mu.Lock()
	d.users = append(d.users, created)
	d.mu.Unlock()

	d.notifier.Success("用户创建成功")
	return nil
}
