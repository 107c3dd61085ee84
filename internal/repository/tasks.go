package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wavepark-dev/shift-console/internal/domain"
)

func (r *Repository) GetAllTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)

	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&tasks).
		Get("/tasks")
	if err != nil {
		return nil, fmt.Errorf("获取任务列表失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *Repository) CreateTask(ctx context.Context, payload *domain.TaskPayload) (*domain.Task, error) {
	task := &domain.Task{}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(task).
		Post("/tasks")
	if err != nil {
		return nil, fmt.Errorf("创建任务失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *Repository) UpdateTask(ctx context.Context, id int64, payload *domain.TaskPayload) (*domain.Task, error) {
	task := &domain.Task{}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(task).
		Put("/tasks/" + strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("更新任务失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	resp, err := r.client.R().
		SetContext(ctx).
		Delete("/tasks/" + strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("删除任务失败: %w", err)
	}

	return r.checkResponse(resp)
}
