package utils

import (
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/wavepark-dev/shift-console/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleManager,
	domain.RoleViewer,
}

// GenerateRandomRole 只返回 manager 或 viewer，管理员账号由种子程序显式创建
func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomUserPayload 生成用于演示的后台用户
func GenerateRandomUserPayload(password string, emailDomainName string) *domain.UserPayload {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)

	return &domain.UserPayload{
		Email:    username + "@" + emailDomainName,
		FullName: fullName,
		Role:     GenerateRandomRole(),
		Password: password,
	}
}
