package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wavepark-dev/shift-console/internal/domain"
)

func (r *Repository) GetAllShifts(ctx context.Context) ([]*domain.Shift, error) {
	shifts := make([]*domain.Shift, 0)

	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&shifts).
		Get("/shifts")
	if err != nil {
		return nil, fmt.Errorf("获取班次列表失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) CreateShift(ctx context.Context, payload *domain.ShiftPayload) (*domain.Shift, error) {
	shift := &domain.Shift{}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(shift).
		Post("/shifts")
	if err != nil {
		return nil, fmt.Errorf("创建班次失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return shift, nil
}

func (r *Repository) UpdateShift(ctx context.Context, id int64, payload *domain.ShiftPayload) (*domain.Shift, error) {
	shift := &domain.Shift{}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(shift).
		Put("/shifts/" + strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("更新班次失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return shift, nil
}

func (r *Repository) DeleteShift(ctx context.Context, id int64) error {
	resp, err := r.client.R().
		SetContext(ctx).
		Delete("/shifts/" + strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("删除班次失败: %w", err)
	}

	return r.checkResponse(resp)
}
