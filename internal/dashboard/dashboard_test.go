package dashboard

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavepark-dev/shift-console/internal/config"
	"github.com/wavepark-dev/shift-console/internal/domain"
	"github.com/wavepark-dev/shift-console/internal/repository"
	"github.com/wavepark-dev/shift-console/internal/session"
	"github.com/wavepark-dev/shift-console/internal/testserver"
)

// ==================== 测试辅助 ====================

// recordingNotifier 记录所有通知，便于断言数量和级别；
// 通知可能来自并发的操作 goroutine，所以加锁
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) allSuccesses() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.successes...)
}

func (n *recordingNotifier) allErrors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.errors...)
}

func setupDashboard(t *testing.T, role domain.Role) (*Dashboard, *testserver.Server, *recordingNotifier, *httptest.Server) {
	ts := testserver.New()
	srv := httptest.NewServer(ts.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestTimeout = 5
	cfg.Session.FilePath = filepath.Join(t.TempDir(), "session.json")

	sess, err := session.NewStore(cfg)
	require.NoError(t, err)

	ts.AddUser("tester@x.local", "secret", "测试账号", role)
	user, err := sess.Login(context.Background(), "tester@x.local", "secret")
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	board, err := NewDashboard(repository.NewRepository(cfg, sess), user, notifier)
	require.NoError(t, err)

	return board, ts, notifier, srv
}

func strPtr(s string) *string { return &s }

// ==================== 加载 ====================

func TestLoadAllPopulatesCollections(t *testing.T) {
	board, ts, _, _ := setupDashboard(t, domain.RoleAdmin)

	ts.AddEmployee(&domain.Employee{FirstName: "Avery", LastName: "Brooks"})
	ts.AddTask(&domain.Task{Name: "深水区瞭望"})
	ts.AddShift(&domain.Shift{
		Name: "早班", Location: "主泳池",
		StartsAt: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC),
	})

	require.NoError(t, board.LoadAll(context.Background()))
	assert.True(t, board.Loaded())
	assert.Len(t, board.Employees(), 1)
	assert.Len(t, board.Tasks(), 1)
	assert.Len(t, board.Shifts(), 1)
	assert.Empty(t, board.Assignments())

	// 管理员额外加载用户列表
	assert.Len(t, board.Users(), 1)
}

func TestLoadAllManagerSkipsUsers(t *testing.T) {
	board, _, _, _ := setupDashboard(t, domain.RoleManager)

	require.NoError(t, board.LoadAll(context.Background()))
	assert.True(t, board.Loaded())
	assert.Empty(t, board.Users())
}

func TestLoadAllFailureKeepsCollections(t *testing.T) {
	board, ts, notifier, srv := setupDashboard(t, domain.RoleManager)

	ts.AddEmployee(&domain.Employee{FirstName: "Maya", LastName: "Lopez"})
	require.NoError(t, board.LoadAll(context.Background()))
	require.Len(t, board.Employees(), 1)

	// 服务端整体不可用时，已有数据保持原样，只发一条聚合通知
	srv.Close()
	err := board.LoadAll(context.Background())
	require.Error(t, err)
	assert.Len(t, board.Employees(), 1)
	assert.Equal(t, []string{"加载数据失败，请稍后重试"}, notifier.allErrors())
}

// ==================== 本地修补 ====================

func TestSubmitEmployeeCreateAppends(t *testing.T) {
	board, _, notifier, _ := setupDashboard(t, domain.RoleManager)
	require.NoError(t, board.LoadAll(context.Background()))

	err := board.SubmitEmployee(context.Background(), &domain.EmployeePayload{
		FirstName: "Eli",
		LastName:  "Sanchez",
	})
	require.NoError(t, err)

	require.Len(t, board.Employees(), 1)
	assert.Equal(t, "Eli Sanchez", board.Employees()[0].FullName())
	assert.Nil(t, board.ActiveEmployee())
	assert.Equal(t, []string{"已添加新员工"}, notifier.allSuccesses())
}

func TestSubmitEmployeeUpdateReplacesInPlace(t *testing.T) {
	board, ts, _, _ := setupDashboard(t, domain.RoleManager)

	first := ts.AddEmployee(&domain.Employee{FirstName: "Priya", LastName: "Patel"})
	ts.AddEmployee(&domain.Employee{FirstName: "Kai", LastName: "Morgan"})
	require.NoError(t, board.LoadAll(context.Background()))

	board.SetActiveEmployee(board.Employees()[0])
	err := board.SubmitEmployee(context.Background(), &domain.EmployeePayload{
		FirstName: "Priya",
		LastName:  "Patel",
		Position:  strPtr("泳池巡视员"),
	})
	require.NoError(t, err)

	// 原位替换，顺序和数量不变
	require.Len(t, board.Employees(), 2)
	assert.Equal(t, first.ID, board.Employees()[0].ID)
	require.NotNil(t, board.Employees()[0].Position)
	assert.Equal(t, "泳池巡视员", *board.Employees()[0].Position)
	assert.Nil(t, board.ActiveEmployee())
}

func TestSubmitInvalidPayloadSkipsRequest(t *testing.T) {
	board, _, notifier, srv := setupDashboard(t, domain.RoleManager)
	require.NoError(t, board.LoadAll(context.Background()))

	// 校验失败不应发起网络请求，关掉服务端来证明这一点
	srv.Close()

	err := board.SubmitEmployee(context.Background(), &domain.EmployeePayload{FirstName: "OnlyFirst"})
	require.Error(t, err)

	validationErr := &ValidationError{}
	assert.ErrorAs(t, err, &validationErr)
	assert.Empty(t, board.Employees())
	assert.Len(t, notifier.allErrors(), 1)
	assert.Nil(t, board.ActiveEmployee())
}

func TestFailedUpdateClearsActivePointer(t *testing.T) {
	board, ts, notifier, _ := setupDashboard(t, domain.RoleManager)

	employee := ts.AddEmployee(&domain.Employee{FirstName: "Nora", LastName: "Kim"})
	require.NoError(t, board.LoadAll(context.Background()))

	// 服务端已经删掉了这个员工，更新会得到 404
	stale := board.Employees()[0]
	require.NoError(t, board.RemoveEmployee(context.Background(), employee.ID))

	board.SetActiveEmployee(stale)
	err := board.SubmitEmployee(context.Background(), &domain.EmployeePayload{
		FirstName: "Nora",
		LastName:  "Kim",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, board.ActiveEmployee())
	assert.Contains(t, notifier.allErrors(), "保存员工失败")
}

func TestRemoveAssignmentLeavesSiblings(t *testing.T) {
	board, ts, _, _ := setupDashboard(t, domain.RoleManager)

	shift := ts.AddShift(&domain.Shift{
		Name: "午班", Location: "主泳池",
		StartsAt: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC),
	})
	employee := ts.AddEmployee(&domain.Employee{FirstName: "Jordan", LastName: "Nguyen"})
	require.NoError(t, board.LoadAll(context.Background()))

	for i := 0; i < 3; i++ {
		err := board.SubmitAssignment(context.Background(), &domain.AssignmentPayload{
			ShiftID:    shift.ID,
			EmployeeID: employee.ID,
		})
		require.NoError(t, err)
	}
	require.Len(t, board.Assignments(), 3)

	removed := board.Assignments()[1].ID
	require.NoError(t, board.RemoveAssignment(context.Background(), removed))

	require.Len(t, board.Assignments(), 2)
	for _, assignment := range board.Assignments() {
		assert.NotEqual(t, removed, assignment.ID)
	}
}

// ==================== 并发 ====================

func TestSubmitWhileViewReads(t *testing.T) {
	board, ts, _, _ := setupDashboard(t, domain.RoleManager)

	ts.AddShift(&domain.Shift{
		Name: "早班", Location: "主泳池",
		StartsAt: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, board.LoadAll(context.Background()))

	// 写操作跑在 tea.Cmd 的 goroutine 里，事件循环的 View 同时读取集合和统计值，
	// 在 -race 下运行时任何未加锁的访问都会被报告
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			err := board.SubmitEmployee(context.Background(), &domain.EmployeePayload{
				FirstName: "Kai",
				LastName:  "Morgan",
			})
			assert.NoError(t, err)
		}
	}()

	for reading := true; reading; {
		select {
		case <-done:
			reading = false
		default:
			_ = board.Employees()
			_ = board.TotalCoverageHours()
			_ = board.UpcomingShift(time.Now())
			_ = board.ActiveEmployee()
		}
	}

	assert.Len(t, board.Employees(), 10)
	assert.Nil(t, board.ActiveEmployee())
}

func TestConcurrentRemovesKeepCollectionConsistent(t *testing.T) {
	board, ts, _, _ := setupDashboard(t, domain.RoleManager)

	first := ts.AddEmployee(&domain.Employee{FirstName: "Avery", LastName: "Brooks"})
	second := ts.AddEmployee(&domain.Employee{FirstName: "Maya", LastName: "Lopez"})
	ts.AddEmployee(&domain.Employee{FirstName: "Liam", LastName: "Harper"})
	require.NoError(t, board.LoadAll(context.Background()))

	// 连续按两次删除键会从两个 goroutine 同时发起删除
	var wg sync.WaitGroup
	for _, id := range []int64{first.ID, second.ID} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, board.RemoveEmployee(context.Background(), id))
		}(id)
	}
	wg.Wait()

	require.Len(t, board.Employees(), 1)
	assert.Equal(t, "Liam Harper", board.Employees()[0].FullName())
}

// ==================== 统计 ====================

func TestTotalCoverageHoursKeepsFraction(t *testing.T) {
	board, ts, _, _ := setupDashboard(t, domain.RoleViewer)

	base := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	ts.AddShift(&domain.Shift{Name: "早班", Location: "主泳池", StartsAt: base, EndsAt: base.Add(6 * time.Hour)})
	ts.AddShift(&domain.Shift{Name: "加班", Location: "滑道区", StartsAt: base, EndsAt: base.Add(90 * time.Minute)})

	require.NoError(t, board.LoadAll(context.Background()))
	assert.InDelta(t, 7.5, board.TotalCoverageHours(), 0.001)
}

func TestUpcomingShiftStrictlyAfterNow(t *testing.T) {
	board, ts, _, _ := setupDashboard(t, domain.RoleViewer)

	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	ts.AddShift(&domain.Shift{Name: "已开始", Location: "主泳池", StartsAt: now, EndsAt: now.Add(4 * time.Hour)})
	later := ts.AddShift(&domain.Shift{Name: "晚班", Location: "造浪池", StartsAt: now.Add(4 * time.Hour), EndsAt: now.Add(9 * time.Hour)})
	ts.AddShift(&domain.Shift{Name: "次日早班", Location: "主泳池", StartsAt: now.Add(20 * time.Hour), EndsAt: now.Add(26 * time.Hour)})

	require.NoError(t, board.LoadAll(context.Background()))

	// 恰好在 now 开始的班次不算即将到来
	upcoming := board.UpcomingShift(now)
	require.NotNil(t, upcoming)
	assert.Equal(t, later.ID, upcoming.ID)

	assert.Nil(t, board.UpcomingShift(now.Add(48*time.Hour)))
}

// ==================== 报表 ====================

func TestExportAssignmentsWritesFile(t *testing.T) {
	board, ts, notifier, _ := setupDashboard(t, domain.RoleManager)

	shift := ts.AddShift(&domain.Shift{
		Name: "早班", Location: "主泳池",
		StartsAt: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC),
	})
	employee := ts.AddEmployee(&domain.Employee{FirstName: "Avery", LastName: "Brooks"})
	require.NoError(t, board.LoadAll(context.Background()))

	err := board.SubmitAssignment(context.Background(), &domain.AssignmentPayload{
		ShiftID:    shift.ID,
		EmployeeID: employee.ID,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "assignments.csv")
	require.NoError(t, board.ExportAssignments(context.Background(), path, nil, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Assignment ID")
	assert.Contains(t, string(data), "Avery Brooks")
	assert.Contains(t, notifier.allSuccesses(), "报表已导出: "+path)
}
