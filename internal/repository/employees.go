package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wavepark-dev/shift-console/internal/domain"
)

func (r *Repository) GetAllEmployees(ctx context.Context) ([]*domain.Employee, error) {
	employees := make([]*domain.Employee, 0)

	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&employees).
		Get("/employees")
	if err != nil {
		return nil, fmt.Errorf("获取员工列表失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, payload *domain.EmployeePayload) (*domain.Employee, error) {
	employee := &domain.Employee{}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(employee).
		Post("/employees")
	if err != nil {
		return nil, fmt.Errorf("创建员工失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, id int64, payload *domain.EmployeePayload) (*domain.Employee, error) {
	employee := &domain.Employee{}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(employee).
		Put("/employees/" + strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("更新员工失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) DeleteEmployee(ctx context.Context, id int64) error {
	resp, err := r.client.R().
		SetContext(ctx).
		Delete("/employees/" + strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("删除员工失败: %w", err)
	}

	return r.checkResponse(resp)
}
