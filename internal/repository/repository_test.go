package repository

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavepark-dev/shift-console/internal/config"
	"github.com/wavepark-dev/shift-console/internal/domain"
	"github.com/wavepark-dev/shift-console/internal/session"
	"github.com/wavepark-dev/shift-console/internal/testserver"
)

// ==================== 测试辅助 ====================

func setupRepository(t *testing.T, role domain.Role) (*Repository, *testserver.Server) {
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
	_, err = sess.Login(context.Background(), "tester@x.local", "secret")
	require.NoError(t, err)

	return NewRepository(cfg, sess), ts
}

func strPtr(s string) *string { return &s }

// ==================== 员工 ====================

func TestEmployeeCRUD(t *testing.T) {
	repo, _ := setupRepository(t, domain.RoleAdmin)
	ctx := context.Background()

	created, err := repo.CreateEmployee(ctx, &domain.EmployeePayload{
		FirstName: "Avery",
		LastName:  "Brooks",
		Position:  strPtr("救生员组长"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Avery Brooks", created.FullName())

	updated, err := repo.UpdateEmployee(ctx, created.ID, &domain.EmployeePayload{
		FirstName: "Avery",
		LastName:  "Brooks",
		Position:  strPtr("泳池主管"),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "泳池主管", *updated.Position)

	employees, err := repo.GetAllEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "泳池主管", *employees[0].Position)

	require.NoError(t, repo.DeleteEmployee(ctx, created.ID))

	employees, err = repo.GetAllEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestUpdateMissingEmployeeReturnsNotFound(t *testing.T) {
	repo, _ := setupRepository(t, domain.RoleAdmin)

	_, err := repo.UpdateEmployee(context.Background(), 999, &domain.EmployeePayload{
		FirstName: "Nobody",
		LastName:  "Here",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== 认证与授权 ====================

func TestRequestWithoutTokenIsUnauthorized(t *testing.T) {
	ts := testserver.New()
	srv := httptest.NewServer(ts.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestTimeout = 5
	cfg.Session.FilePath = filepath.Join(t.TempDir(), "session.json")

	sess, err := session.NewStore(cfg)
	require.NoError(t, err)

	repo := NewRepository(cfg, sess)
	_, err = repo.GetAllEmployees(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestViewerCannotDelete(t *testing.T) {
	repo, ts := setupRepository(t, domain.RoleViewer)
	ctx := context.Background()

	employee := ts.AddEmployee(&domain.Employee{FirstName: "Maya", LastName: "Lopez"})

	err := repo.DeleteEmployee(ctx, employee.ID)
	require.Error(t, err)

	reqErr := &domain.RequestError{}
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 403, reqErr.StatusCode)
	assert.Equal(t, "Insufficient permissions", reqErr.Detail)

	// 只读账号仍然可以查看
	employees, err := repo.GetAllEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

// ==================== 排班 ====================

func TestAssignmentPatchIsPartial(t *testing.T) {
	repo, ts := setupRepository(t, domain.RoleManager)
	ctx := context.Background()

	shift := ts.AddShift(&domain.Shift{
		Name:          "早班",
		Location:      "主泳池",
		StartsAt:      time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC),
		EndsAt:        time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC),
		RequiredStaff: 3,
	})
	employee := ts.AddEmployee(&domain.Employee{FirstName: "Jordan", LastName: "Nguyen"})

	created, err := repo.CreateAssignment(ctx, &domain.AssignmentPayload{
		ShiftID:    shift.ID,
		EmployeeID: employee.ID,
		Note:       strPtr("带新人"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.Shift)
	require.NotNil(t, created.Employee)
	assert.Equal(t, "早班", created.Shift.Name)

	// 只提交签到时间，备注等其他字段保持不变
	checkIn := "2026-07-01T08:02:00Z"
	updated, err := repo.UpdateAssignment(ctx, created.ID, &domain.AssignmentPatch{
		CheckInTime: &checkIn,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "带新人", *updated.Note)
	require.NotNil(t, updated.CheckInTime)
	assert.Equal(t, checkIn, *updated.CheckInTime)
}

func TestCreateAssignmentWithMissingShift(t *testing.T) {
	repo, ts := setupRepository(t, domain.RoleManager)

	employee := ts.AddEmployee(&domain.Employee{FirstName: "Liam", LastName: "Harper"})

	_, err := repo.CreateAssignment(context.Background(), &domain.AssignmentPayload{
		ShiftID:    999,
		EmployeeID: employee.ID,
	})
	require.Error(t, err)

	reqErr := &domain.RequestError{}
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Shift or employee not found", reqErr.Detail)
}

// ==================== 报表 ====================

func TestExportAssignmentsCSV(t *testing.T) {
	repo, ts := setupRepository(t, domain.RoleManager)
	ctx := context.Background()

	shift := ts.AddShift(&domain.Shift{
		Name:          "晚班",
		Location:      "造浪池",
		StartsAt:      time.Date(2026, 7, 1, 16, 0, 0, 0, time.UTC),
		EndsAt:        time.Date(2026, 7, 1, 21, 0, 0, 0, time.UTC),
		RequiredStaff: 2,
	})
	employee := ts.AddEmployee(&domain.Employee{FirstName: "Nora", LastName: "Kim"})

	_, err := repo.CreateAssignment(ctx, &domain.AssignmentPayload{
		ShiftID:    shift.ID,
		EmployeeID: employee.ID,
	})
	require.NoError(t, err)

	data, err := repo.ExportAssignmentsCSV(ctx, nil, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Assignment ID,Shift,Location,Start,End,Employee,Task,Note,Check In,Check Out", lines[0])
	assert.Contains(t, lines[1], "晚班")
	assert.Contains(t, lines[1], "Nora Kim")

	// 过滤窗口外的班次不会出现在报表里
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	data, err = repo.ExportAssignmentsCSV(ctx, &start, nil)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 1)
}

// ==================== 用户 ====================

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo, _ := setupRepository(t, domain.RoleAdmin)
	ctx := context.Background()

	payload := &domain.UserPayload{
		Email:    "viewer@x.local",
		FullName: "前台",
		Role:     domain.RoleViewer,
		Password: "pass1234",
	}

	_, err := repo.CreateUser(ctx, payload)
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, payload)
	require.Error(t, err)

	reqErr := &domain.RequestError{}
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Email already registered", reqErr.Detail)

	users, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2) // 登录账号加新建的账号
}
