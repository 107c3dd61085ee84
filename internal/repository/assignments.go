package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wavepark-dev/shift-console/internal/domain"
)

func (r *Repository) GetAllAssignments(ctx context.Context) ([]*domain.ShiftAssignment, error) {
	assignments := make([]*domain.ShiftAssignment, 0)

	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&assignments).
		Get("/assignments")
	if err != nil {
		return nil, fmt.Errorf("获取排班列表失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) CreateAssignment(ctx context.Context, payload *domain.AssignmentPayload) (*domain.ShiftAssignment, error) {
	assignment := &domain.ShiftAssignment{}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(assignment).
		Post("/assignments")
	if err != nil {
		return nil, fmt.Errorf("创建排班失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return assignment, nil
}

// UpdateAssignment 采用部分更新语义，patch 中未设置的字段保持服务端原值
func (r *Repository) UpdateAssignment(ctx context.Context, id int64, patch *domain.AssignmentPatch) (*domain.ShiftAssignment, error) {
	assignment := &domain.ShiftAssignment{}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(patch).
		SetResult(assignment).
		Patch("/assignments/" + strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("更新排班失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (r *Repository) DeleteAssignment(ctx context.Context, id int64) error {
	resp, err := r.client.R().
		SetContext(ctx).
		Delete("/assignments/" + strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("删除排班失败: %w", err)
	}

	return r.checkResponse(resp)
}
