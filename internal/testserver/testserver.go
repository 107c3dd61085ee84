// Package testserver 实现后端接口的进程内测试替身，
// 供 repository、session 和 dashboard 的测试使用，不是生产后端
package testserver

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wavepark-dev/shift-console/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	roleCtxKey contextKey = "role"
	subCtxKey  contextKey = "sub"
)

type userRecord struct {
	user         *domain.User
	passwordHash string
}

type Server struct {
	mux    *chi.Mux
	secret []byte

	mu          sync.Mutex
	users       []*userRecord
	employees   []*domain.Employee
	tasks       []*domain.Task
	shifts      []*domain.Shift
	assignments []*domain.ShiftAssignment
	nextID      int64
}

func New() *Server {
	s := &Server{
		mux:    chi.NewRouter(),
		secret: []byte("testserver-secret"),
		nextID: 1,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// AddUser 直接注入一个登录用户，返回写入的档案
func (s *Server) AddUser(email string, password string, fullName string, role domain.Role) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	user := &domain.User{
		ID:       s.allocID(),
		Email:    email,
		FullName: fullName,
		Role:     role,
	}
	s.users = append(s.users, &userRecord{user: user, passwordHash: string(hash)})
	return user
}

// AddShift 直接注入一个班次，便于测试控制时间
func (s *Server) AddShift(shift *domain.Shift) *domain.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift.ID = s.allocID()
	s.shifts = append(s.shifts, shift)
	return shift
}

func (s *Server) AddEmployee(employee *domain.Employee) *domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee.ID = s.allocID()
	s.employees = append(s.employees, employee)
	return employee
}

func (s *Server) AddTask(task *domain.Task) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.allocID()
	s.tasks = append(s.tasks, task)
	return task
}

/**********************************************
 * 路由
 **********************************************/

func (s *Server) registerRoutes() {
	s.mux.Post("/auth/token", s.login)

	s.mux.Group(func(r chi.Router) {
		r.Use(s.auth)

		r.Route("/auth/users", func(r chi.Router) {
			r.Use(s.requireRole(domain.RoleAdmin, domain.RoleManager))
			r.Get("/", s.listUsers)
			r.Post("/", s.createUser)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", s.listEmployees)
			r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).Post("/", s.createEmployee)
			r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).Put("/{id}", s.updateEmployee)
			r.With(s.requireRole(domain.RoleAdmin)).Delete("/{id}", s.deleteEmployee)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.listTasks)
			r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).Post("/", s.createTask)
			r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).Put("/{id}", s.updateTask)
			r.With(s.requireRole(domain.RoleAdmin)).Delete("/{id}", s.deleteTask)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", s.listShifts)
			r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).Post("/", s.createShift)
			r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).Put("/{id}", s.updateShift)
			r.With(s.requireRole(domain.RoleAdmin)).Delete("/{id}", s.deleteShift)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", s.listAssignments)
			r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).Post("/", s.createAssignment)
			r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).Patch("/{id}", s.patchAssignment)
			r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).Delete("/{id}", s.deleteAssignment)
		})

		r.With(s.requireRole(domain.RoleAdmin, domain.RoleManager)).
			Get("/reports/assignments.csv", s.exportAssignments)
	})
}

/**********************************************
 * 辅助函数
 **********************************************/

func (s *Server) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// detailError 模仿真实后端的错误格式 {"detail": "..."}
func (s *Server) detailError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

/**********************************************
 * 认证
 **********************************************/

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.detailError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	s.mu.Lock()
	defer s.mu.Unlock()

	var record *userRecord
	for _, candidate := range s.users {
		if candidate.user.Email == email {
			record = candidate
			break
		}
	}

	if record == nil || bcrypt.CompareHashAndPassword([]byte(record.passwordHash), []byte(password)) != nil {
		s.detailError(w, http.StatusBadRequest, "Incorrect email or password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		Role: string(record.user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(record.user.ID, 10),
		},
	})
	ss, err := token.SignedString(s.secret)
	if err != nil {
		s.detailError(w, http.StatusInternalServerError, "Token signing failed")
		return
	}

	s.writeJSON(w, http.StatusOK, &domain.LoginResponse{
		AccessToken: ss,
		TokenType:   "bearer",
		User:        record.user,
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			s.detailError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		claims := &authClaims{}
		_, err := jwt.ParseWithClaims(header[len(prefix):], claims, func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		})
		if err != nil {
			s.detailError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, roleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, subCtxKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(roles ...domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := domain.Role(r.Context().Value(roleCtxKey).(string))
			if !slices.Contains(roles, role) {
				s.detailError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
