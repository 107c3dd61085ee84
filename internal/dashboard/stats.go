package dashboard

import (
	"context"
	"os"
	"time"

	"github.com/wavepark-dev/shift-console/internal/domain"
)

// TotalCoverageHours 所有班次覆盖小时数之和，保留小数
func (d *Dashboard) TotalCoverageHours() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	total := 0.0
	for _, shift := range d.shifts {
		total += shift.CoverageHours()
	}
	return total
}

// UpcomingShift 开始时间严格晚于 now 的班次中最早的一个，没有则返回 nil
func (d *Dashboard) UpcomingShift(now time.Time) *domain.Shift {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var upcoming *domain.Shift
	for _, shift := range d.shifts {
		if !shift.StartsAt.After(now) {
			continue
		}
		if upcoming == nil || shift.StartsAt.Before(upcoming.StartsAt) {
			upcoming = shift
		}
	}
	return upcoming
}

// ExportAssignments 将服务端生成的 CSV 报表原样写入文件
func (d *Dashboard) ExportAssignments(ctx context.Context, path string, start *time.Time, end *time.Time) error {
	data, err := d.repo.ExportAssignmentsCSV(ctx, start, end)
	if err != nil {
		d.notifier.Error("导出报表失败")
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		d.notifier.Error("保存报表文件失败")
		return err
	}

	d.notifier.Success("报表已导出: " + path)
	return nil
}
