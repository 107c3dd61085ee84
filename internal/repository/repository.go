package repository

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/wavepark-dev/shift-console/internal/config"
	"github.com/wavepark-dev/shift-console/internal/domain"
	"github.com/wavepark-dev/shift-console/internal/session"
)

// Repository 是后端各资源集合的类型化访问入口，
// 所有请求都会自动附带当前会话的 Bearer 令牌
type Repository struct {
	cfg     *config.Config
	session *session.Store
	client  *resty.Client
}

func NewRepository(cfg *config.Config, sess *session.Store) *Repository {
	client := resty.New().
		SetBaseURL(cfg.API.BaseURL).
		SetTimeout(time.Duration(cfg.API.RequestTimeout) * time.Second).
		SetHeader("User-Agent", "wavepark-shift-console/1.0")

	client.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
		if token := sess.Token(); token != "" {
			r.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	return &Repository{
		cfg:     cfg,
		session: sess,
		client:  client,
	}
}

// checkResponse 将非 2xx 响应映射为领域错误，
// 其他情况下尽量带上服务端返回的 detail 信息
func (r *Repository) checkResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	}

	var body struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(resp.Body(), &body)

	return &domain.RequestError{
		StatusCode: resp.StatusCode(),
		Detail:     body.Detail,
	}
}
