package repository

import (
	"context"
	"fmt"

	"github.com/wavepark-dev/shift-console/internal/domain"
)

// 用户资源只开放列表和创建，后端刻意不提供修改和删除接口

func (r *Repository) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0)

	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&users).
		Get("/auth/users")
	if err != nil {
		return nil, fmt.Errorf("获取用户列表失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) CreateUser(ctx context.Context, payload *domain.UserPayload) (*domain.User, error) {
	user := &domain.User{}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(user).
		Post("/auth/users")
	if err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	if err := r.checkResponse(resp); err != nil {
		return nil, err
	}

	return user, nil
}
