package service

import (
	"context"
	"fmt"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/repository"
	"monsterhouse_backend/internal/util"
	"monsterhouse_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultPlan 管理员激活学员时未指定套餐
const DefaultPlan = "Mensal"

type ProfileService struct {
	Profiles *repository.ProfileRepository
	now      func() time.Time
}

func NewProfileService(profiles *repository.ProfileRepository) *ProfileService {
	return &ProfileService{Profiles: profiles, now: time.Now}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	return s.Profiles.FindByID(ctx, userID)
}

// ListStudents 管理员查看所有学员，最新注册在前
func (s *ProfileService) ListStudents(ctx context.Context) ([]model.Profile, error) {
	students, err := s.Profiles.ListByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Profile{}
	}
	return students, nil
}

type ActivateStudentRequest struct {
	Email string `json:"email" binding:"required"`
	Plan  string `json:"plan"`
}

// ActivateStudent 线下收款后按邮箱激活学员，有效期一个月。
// 学员必须已在站点注册
func (s *ProfileService) ActivateStudent(ctx context.Context, req ActivateStudentRequest) (*model.Profile, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", util.ErrInvalidProfile)
	}
	p, err := s.Profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	plan := strings.TrimSpace(req.Plan)
	if plan == "" {
		plan = DefaultPlan
	}
	due := s.now().AddDate(0, 1, 0)
	p.Status = model.StatusActive
	p.Plan = &plan
	p.DueDate = &due
	if err := s.Profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	logger.Log.Info("Student activated", logger.UserID(p.ID), zap.String("plan", plan), zap.Time("due_date", due))
	return p, nil
}

type UpdateStudentRequest struct {
	Name   string              `json:"name" binding:"required"`
	Phone  string              `json:"phone"`
	CPF    string              `json:"cpf"`
	Plan   string              `json:"plan"`
	Status model.ProfileStatus `json:"status" binding:"required"`
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// UpdateStudent 管理员编辑学员资料；空的电话、CPF、套餐清空对应字段
func (s *ProfileService) UpdateStudent(ctx context.Context, id string, req UpdateStudentRequest) (*model.Profile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", util.ErrInvalidProfile)
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", util.ErrInvalidProfile, req.Status)
	}

	p, err := s.Profiles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role != model.RoleStudent {
		return nil, util.ErrUserNotFound
	}

	p.Name = name
	p.Phone = optional(req.Phone)
	p.CPF = optional(req.CPF)
	p.Plan = optional(req.Plan)
	p.Status = req.Status
	if err := s.Profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
