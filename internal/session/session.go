package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wavepark-dev/shift-console/internal/config"
	"github.com/wavepark-dev/shift-console/internal/domain"
)

// persistedSession 持久化到本地文件的会话内容，
// access_token 和 user 两个键总是一起写入、一起清除
type persistedSession struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

type Store struct {
	cfg      *config.Config
	client   *resty.Client
	filePath string

	user  *domain.User
	token string
}

func NewStore(cfg *config.Config) (*Store, error) {
	filePath := cfg.Session.FilePath
	if filePath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("无法确定用户配置目录: %w", err)
		}
		filePath = filepath.Join(configDir, "wavepark-shift-console", "session.json")
	}

	client := resty.New().
		SetBaseURL(cfg.API.BaseURL).
		SetTimeout(time.Duration(cfg.API.RequestTimeout) * time.Second).
		SetHeader("User-Agent", "wavepark-shift-console/1.0")

	return &Store{
		cfg:      cfg,
		client:   client,
		filePath: filePath,
	}, nil
}

// Login 用密码换取访问令牌，成功后先持久化会话再更新内存状态，
// 任何一步失败都不会影响已有的会话
func (s *Store) Login(ctx context.Context, email string, password string) (*domain.User, error) {
	result := &domain.LoginResponse{}

	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username":   email,
			"password":   password,
			"grant_type": "password",
		}).
		SetResult(result).
		Post("/auth/token")
	if err != nil {
		return nil, fmt.Errorf("登录请求失败: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusUnauthorized:
		return nil, domain.ErrInvalidCredentials
	case resp.IsError():
		return nil, &domain.RequestError{StatusCode: resp.StatusCode()}
	}

	if result.AccessToken == "" || result.User == nil {
		return nil, errors.New("登录响应缺少令牌或用户信息")
	}

	if err := s.persist(&persistedSession{AccessToken: result.AccessToken, User: result.User}); err != nil {
		return nil, fmt.Errorf("无法保存会话: %w", err)
	}

	s.token = result.AccessToken
	s.user = result.User

	return result.User, nil
}

// Logout 清除本地会话，不需要请求服务端，本地操作总是成功
func (s *Store) Logout() error {
	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("无法删除会话文件: %w", err)
	}

	s.token = ""
	s.user = nil

	return nil
}

// Bootstrap 在进程启动时从本地文件恢复会话，不会请求服务端，可以重复调用
func (s *Store) Bootstrap() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("无法读取会话文件: %w", err)
	}

	ps := &persistedSession{}
	if err := json.Unmarshal(data, ps); err != nil || ps.AccessToken == "" || ps.User == nil {
		// 文件损坏时按无会话处理，避免半恢复状态
		_ = os.Remove(s.filePath)
		return nil
	}

	s.token = ps.AccessToken
	s.user = ps.User

	return nil
}

func (s *Store) CurrentUser() *domain.User {
	return s.user
}

func (s *Store) Token() string {
	return s.token
}

// TokenExpiresAt 从令牌中解析过期时间，只做展示用，不验证签名
func (s *Store) TokenExpiresAt() (time.Time, bool) {
	if s.token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

func (s *Store) persist(ps *persistedSession) error {
	data, err := json.Marshal(ps)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o700); err != nil {
		return err
	}

	// 先写临时文件再重命名，避免写入中断留下半个会话
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.filePath)
}
