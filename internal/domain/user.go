package domain

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// CanManage 是否允许对员工、任务、班次和排班进行增删改
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanAdmin 是否允许管理系统用户
func (r Role) CanAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

type UserPayload struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Role     Role   `json:"role" validate:"required,oneof=admin manager viewer"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse 对应 POST /auth/token 的响应
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}
