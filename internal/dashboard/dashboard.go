package dashboard

import (
	"context"
	"slices"
	"sync"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/wavepark-dev/shift-console/internal/domain"
	"github.com/wavepark-dev/shift-console/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Dashboard 持有当前视图会话的四个实体集合的内存镜像。
// 集合在 LoadAll 时整体替换，之后每次写操作成功后做最小化的本地修补，
// 不会重新拉取整个集合。所有修改都由本结构自己的方法执行
type Dashboard struct {
	repo       *repository.Repository
	notifier   Notifier
	validate   *validator.Validate
	translator ut.Translator
	user       *domain.User

	// mu 保护集合和编辑指针：写操作跑在 tea.Cmd 的 goroutine 里，
	// 而事件循环的 View 会同时读取这些集合
	mu          sync.RWMutex
	loaded      bool
	employees   []*domain.Employee
	tasks       []*domain.Task
	shifts      []*domain.Shift
	assignments []*domain.ShiftAssignment
	users       []*domain.User

	activeEmployee   *domain.Employee
	activeTask       *domain.Task
	activeShift      *domain.Shift
	activeAssignment *domain.ShiftAssignment
}

func NewDashboard(repo *repository.Repository, user *domain.User, notifier Notifier) (*Dashboard, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if notifier == nil {
		notifier = NewSlogNotifier()
	}

	return &Dashboard{
		repo:       repo,
		notifier:   notifier,
		validate:   validate,
		translator: trans,
		user:       user,
	}, nil
}

func (d *Dashboard) User() *domain.User {
	return d.user
}

// CanManage 当前会话是否允许增删改员工、任务、班次和排班
func (d *Dashboard) CanManage() bool {
	return d.user != nil && d.user.Role.CanManage()
}

// CanAdmin 当前会话是否允许管理系统用户
func (d *Dashboard) CanAdmin() bool {
	return d.user != nil && d.user.Role.CanAdmin()
}

func (d *Dashboard) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// 集合访问器返回浅拷贝的快照，调用方可以随意遍历，不会和写操作冲突

func (d *Dashboard) Employees() []*domain.Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.employees)
}

func (d *Dashboard) Tasks() []*domain.Task {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.tasks)
}

func (d *Dashboard) Shifts() []*domain.Shift {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.shifts)
}

func (d *Dashboard) Assignments() []*domain.ShiftAssignment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.assignments)
}

func (d *Dashboard) Users() []*domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.users)
}

// LoadAll 并发拉取全部集合，管理员会话额外拉取用户列表。
// 任何一个请求失败都视为整体失败，此时不会替换任何集合，
// 只发出一条聚合的失败通知；重试的方式是再次调用本方法
func (d *Dashboard) LoadAll(ctx context.Context) error {
	var (
		employees   []*domain.Employee
		tasks       []*domain.Task
		shifts      []*domain.Shift
		assignments []*domain.ShiftAssignment
		users       []*domain.User
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = d.repo.GetAllEmployees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = d.repo.GetAllTasks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		shifts, err = d.repo.GetAllShifts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = d.repo.GetAllAssignments(gctx)
		return err
	})
	if d.CanAdmin() {
		g.Go(func() error {
			var err error
			users, err = d.repo.GetAllUsers(gctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		d.notifier.Error("加载数据失败，请稍后重试")
		return err
	}

	d.mu.Lock()
	d.employees = employees
	d.tasks = tasks
	d.shifts = shifts
	d.assignments = assignments
	d.users = users
	d.loaded = true
	d.mu.Unlock()

	return nil
}

// validatePayload 在发起请求前做表单级校验，返回翻译后的第一条错误
func (d *Dashboard) validatePayload(payload any) error {
	if err := d.validate.Struct(payload); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		return &ValidationError{Message: validationErrors[0].Translate(d.translator)}
	}
	return nil
}

// ValidationError 表单校验失败，不会发起网络请求
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
