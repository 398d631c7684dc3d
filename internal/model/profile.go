package model

import (
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleStudent  UserRole = "student"
	RolePersonal UserRole = "personal"
)

type ProfileStatus string

const (
	StatusActive         ProfileStatus = "active"
	StatusLate           ProfileStatus = "late"
	StatusInactive       ProfileStatus = "inactive"
	StatusPendingPayment ProfileStatus = "pending_payment"
)

func (s ProfileStatus) Valid() bool {
	switch s {
	case StatusActive, StatusLate, StatusInactive, StatusPendingPayment:
		return true
	}
	return false
}

// Profile 由身份提供方创建，ID 与令牌中的 sub 一致
// swagger:model Profile
type Profile struct {
	ID         string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string        `gorm:"size:100;not null" json:"name"`
	Email      *string       `gorm:"size:100;uniqueIndex" json:"email"`
	Phone      *string       `gorm:"size:30" json:"phone"`
	CPF        *string       `gorm:"size:14" json:"cpf,omitempty"`
	Role       UserRole      `gorm:"size:20;default:'student';index" json:"role"`
	Status     ProfileStatus `gorm:"size:20;default:'pending_payment'" json:"status"`
	Plan       *string       `gorm:"size:50" json:"plan,omitempty"`
	DueDate    *time.Time    `json:"due_date,omitempty"`
	PersonalID *string       `gorm:"type:varchar(36);index" json:"personal_id,omitempty"`
	PhotoURL   *string       `gorm:"size:255" json:"photo_url,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Session 当前请求的调用者身份，由中间件构造后显式传入各服务
type Session struct {
	UserID     string
	Role       UserRole
	Status     ProfileStatus
	PersonalID *string
}

func (p *Profile) Session() Session {
	return Session{
		UserID:     p.ID,
		Role:       p.Role,
		Status:     p.Status,
		PersonalID: p.PersonalID,
	}
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CanTrain 与前端一致：非 active 的学员被锁定，管理员不受限制
func (s Session) CanTrain() bool {
	return s.IsAdmin() || s.Status == StatusActive
}
