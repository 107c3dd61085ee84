package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		canManage bool
		canAdmin  bool
	}{
		{name: "管理员可以管理数据和用户", role: RoleAdmin, canManage: true, canAdmin: true},
		{name: "经理可以管理数据但不能管理用户", role: RoleManager, canManage: true, canAdmin: false},
		{name: "只读用户没有任何写权限", role: RoleViewer, canManage: false, canAdmin: false},
		{name: "未知角色没有任何权限", role: Role("intern"), canManage: false, canAdmin: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canManage, tt.role.CanManage())
			assert.Equal(t, tt.canAdmin, tt.role.CanAdmin())
		})
	}
}

func TestRequestErrorMessage(t *testing.T) {
	err := &RequestError{StatusCode: 409, Detail: "Shift overlaps"}
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "Shift overlaps")
}
