package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/wavepark-dev/shift-console/internal/config"
	"github.com/wavepark-dev/shift-console/internal/dashboard"
	"github.com/wavepark-dev/shift-console/internal/domain"
	"github.com/wavepark-dev/shift-console/internal/repository"
	"github.com/wavepark-dev/shift-console/internal/session"
	"github.com/wavepark-dev/shift-console/internal/tui"
	"golang.org/x/term"
)

func main() {
	var baseURL string
	var exportPath string
	var startRaw, endRaw string
	var logout bool

	pflag.StringVar(&baseURL, "base-url", "", "后端地址，覆盖 API_BASE_URL")
	pflag.StringVar(&exportPath, "export", "", "导出排班 CSV 到指定文件后退出")
	pflag.StringVar(&startRaw, "start", "", "导出的开始时间 (RFC3339)")
	pflag.StringVar(&endRaw, "end", "", "导出的结束时间 (RFC3339)")
	pflag.BoolVar(&logout, "logout", false, "清除本地会话后退出")
	pflag.Parse()

	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		os.Exit(1)
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	/**********************************************
	 * 恢复或建立会话
	 **********************************************/
	sess, err := session.NewStore(cfg)
	if err != nil {
		logger.Error("无法初始化会话", "error", err)
		os.Exit(1)
	}

	if logout {
		if err := sess.Logout(); err != nil {
			logger.Error("退出登录失败", "error", err)
			os.Exit(1)
		}
		fmt.Println("已退出登录")
		return
	}

	if err := sess.Bootstrap(); err != nil {
		logger.Error("无法恢复本地会话", "error", err)
		os.Exit(1)
	}

	if sess.CurrentUser() == nil {
		if err := promptLogin(sess); err != nil {
			logger.Error("登录失败", "error", err)
			os.Exit(1)
		}
	}

	if expiresAt, ok := sess.TokenExpiresAt(); ok && time.Now().After(expiresAt) {
		logger.Warn("本地会话已过期，请重新登录")
		if err := promptLogin(sess); err != nil {
			logger.Error("登录失败", "error", err)
			os.Exit(1)
		}
	}

	/**********************************************
	 * 构建仪表盘
	 **********************************************/
	repo := repository.NewRepository(cfg, sess)

	if exportPath != "" {
		runExport(repo, sess, exportPath, startRaw, endRaw)
		return
	}

	recorder := tui.NewRecorder()
	board, err := dashboard.NewDashboard(repo, sess.CurrentUser(), recorder)
	if err != nil {
		logger.Error("无法初始化仪表盘", "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * 启动终端界面
	 **********************************************/
	program := tea.NewProgram(tui.NewModel(board, recorder), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error("终端界面异常退出", "error", err)
		os.Exit(1)
	}
}

const loginTimeout = 60 * time.Second

// promptLogin 从终端读取邮箱和密码并登录，密码不回显
func promptLogin(sess *session.Store) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("邮箱: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	fmt.Print("密码: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	user, err := loginSession(sess, email, string(password), loginTimeout)
	if err != nil {
		return err
	}

	fmt.Printf("欢迎, %s\n", user.FullName)
	return nil
}

// loginSession 执行登录请求；超时只覆盖请求本身，
// 不包含用户在终端输入凭证所花的时间
func loginSession(sess *session.Store, email string, password string, timeout time.Duration) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return sess.Login(ctx, email, password)
}

func runExport(repo *repository.Repository, sess *session.Store, path string, startRaw string, endRaw string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var start, end *time.Time
	if startRaw != "" {
		t, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			slog.Error("开始时间格式错误", "error", err)
			os.Exit(1)
		}
		start = &t
	}
	if endRaw != "" {
		t, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			slog.Error("结束时间格式错误", "error", err)
			os.Exit(1)
		}
		end = &t
	}

	board, err := dashboard.NewDashboard(repo, sess.CurrentUser(), nil)
	if err != nil {
		slog.Error("无法初始化仪表盘", "error", err)
		os.Exit(1)
	}

	if err := board.ExportAssignments(ctx, path, start, end); err != nil {
		os.Exit(1)
	}
}
