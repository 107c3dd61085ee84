package repository

import (
	"context"
	"fmt"
	"time"
)

// ExportAssignmentsCSV 导出排班报表，返回原始 CSV 字节，不做任何客户端转换。
// start 和 end 不为空时作为时间范围过滤条件传给服务端
func (r *Repository) ExportAssignmentsCSV(ctx context.Context, start *time.Time, end *time.Time) ([]byte, error) {
	req := r.client.R().SetContext(ctx)

	if start != nil {
		req.SetQueryParam("start", start.Format(time.RFC3339))
	}
	if end != nil {
		req.SetQueryParam("end", end.Format(time.RFC3339))
	}

	resp, err := req.Get("/reports/assignments.csv")
	if err != nil {
		return nil, fmt.Errorf("导出报表失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}
