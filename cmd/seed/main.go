package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/wavepark-dev/shift-console/internal/config"
	"github.com/wavepark-dev/shift-console/internal/domain"
	"github.com/wavepark-dev/shift-console/internal/repository"
	"github.com/wavepark-dev/shift-console/internal/session"
	"github.com/wavepark-dev/shift-console/internal/utils"
)

func strPtr(s string) *string { return &s }

type seedEmployee struct {
	first, last, position string
}

type seedShift struct {
	name, location string
	startHour      int
	hours          int
	required       int32
}

// 水上乐园救生员排班的演示数据
var seedEmployees = []seedEmployee{
	{"Avery", "Brooks", "救生员组长"},
	{"Jordan", "Nguyen", "救生员"},
	{"Maya", "Lopez", "救生员"},
	{"Liam", "Harper", "救生员"},
	{"Nora", "Kim", "急救员"},
	{"Eli", "Sanchez", "救生员"},
	{"Priya", "Patel", "泳池巡视员"},
	{"Kai", "Morgan", "救生员"},
}

var seedTasks = []domain.TaskPayload{
	{Name: "深水区瞭望", Description: strPtr("在主泳池深水区瞭望塔执勤"), CertificationRequired: strPtr("深水救生证")},
	{Name: "滑道出口值守", Description: strPtr("在大型滑道出水口接应游客")},
	{Name: "儿童池巡视", Description: strPtr("巡视儿童戏水区并维持秩序")},
	{Name: "急救站值班", Description: strPtr("驻守急救站处理突发伤情"), CertificationRequired: strPtr("急救证")},
}

var seedShifts = []seedShift{
	{"早班", "主泳池", 8, 6, 3},
	{"午班", "主泳池", 12, 6, 4},
	{"晚班", "造浪池", 16, 5, 3},
	{"周末早班", "滑道区", 9, 7, 2},
}

func main() {
	var userCount int
	var baseURL string

	pflag.IntVarP(&userCount, "users", "n", 3, "额外生成的随机后台用户数量")
	pflag.StringVar(&baseURL, "base-url", "", "后端地址，覆盖 API_BASE_URL")
	pflag.Parse()

	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	/**********************************************
	 * 用管理员账号登录
	 **********************************************/
	sess, err := session.NewStore(cfg)
	if err != nil {
		logger.Error("无法初始化会话", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := sess.Login(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		logger.Error("管理员登录失败", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, sess)

	/**********************************************
	 * 插入员工
	 **********************************************/
	employees := make([]*domain.Employee, 0, len(seedEmployees))
	for _, e := range seedEmployees {
		created, err := repo.CreateEmployee(ctx, &domain.EmployeePayload{
			FirstName: e.first,
			LastName:  e.last,
			Position:  strPtr(e.position),
		})
		if err != nil {
			logger.Error("无法插入员工", "error", err)
			return
		}
		employees = append(employees, created)
	}
	logger.Info("已插入员工", "count", len(employees))

	/**********************************************
	 * 插入任务
	 **********************************************/
	tasks := make([]*domain.Task, 0, len(seedTasks))
	for i := range seedTasks {
		created, err := repo.CreateTask(ctx, &seedTasks[i])
		if err != nil {
			logger.Error("无法插入任务", "error", err)
			return
		}
		tasks = append(tasks, created)
	}
	logger.Info("已插入任务", "count", len(tasks))

	/**********************************************
	 * 插入班次
	 **********************************************/
	weekStart := time.Now().Truncate(24 * time.Hour).Add(24 * time.Hour)
	shifts := make([]*domain.Shift, 0, len(seedShifts))
	for _, sh := range seedShifts {
		start := weekStart.Add(time.Duration(sh.startHour) * time.Hour)
		created, err := repo.CreateShift(ctx, &domain.ShiftPayload{
			Name:          sh.name,
			Location:      sh.location,
			StartsAt:      start,
			EndsAt:        start.Add(time.Duration(sh.hours) * time.Hour),
			RequiredStaff: sh.required,
		})
		if err != nil {
			logger.Error("无法插入班次", "error", err)
			return
		}
		shifts = append(shifts, created)
	}
	logger.Info("已插入班次", "count", len(shifts))

	/**********************************************
	 * 插入排班
	 **********************************************/
	assignmentCount := 0
	for i, shift := range shifts {
		for j := int32(0); j < shift.RequiredStaff; j++ {
			employee := employees[(i*3+int(j))%len(employees)]
			task := tasks[(i+int(j))%len(tasks)]
			_, err := repo.CreateAssignment(ctx, &domain.AssignmentPayload{
				ShiftID:    shift.ID,
				EmployeeID: employee.ID,
				TaskID:     &task.ID,
			})
			if err != nil {
				logger.Error("无法插入排班", "error", err)
				return
			}
			assignmentCount++
		}
	}
	logger.Info("已插入排班", "count", assignmentCount)

	/**********************************************
	 * 插入随机后台用户
	 **********************************************/
	for i := 0; i < userCount; i++ {
		payload := utils.GenerateRandomUserPayload(cfg.Seed.UserPassword, cfg.Seed.EmailDomain)
		if _, err := repo.CreateUser(ctx, payload); err != nil {
			logger.Error("无法插入后台用户", "error", err)
			return
		}
	}
	logger.Info("已插入后台用户", "count", userCount)
}
