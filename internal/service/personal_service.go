package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/repository"
	"monsterhouse_backend/internal/util"
	"monsterhouse_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

const (
	accessCodeLength   = 8
	accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	accessCodeAttempts = 5
)

type PersonalService struct {
	Trainers *repository.PersonalTrainerRepository
	Profiles *repository.ProfileRepository
	Storage  *StorageService
}

func NewPersonalService(trainers *repository.PersonalTrainerRepository, profiles *repository.ProfileRepository, storage *StorageService) *PersonalService {
	return &PersonalService{Trainers: trainers, Profiles: profiles, Storage: storage}
}

// NormalizeAccessCode 去除空白并转为大写
func NormalizeAccessCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Link 学员通过访问码绑定私教，只接受启用中的私教
func (s *PersonalService) Link(ctx context.Context, sess model.Session, code string) (*model.PersonalTrainer, error) {
	code = NormalizeAccessCode(code)
	if code == "" {
		return nil, util.ErrInvalidAccessCode
	}
	trainer, err := s.Trainers.FindByAccessCode(ctx, code)
	if errors.Is(err, util.ErrTrainerNotFound) {
		return nil, util.ErrInvalidAccessCode
	}
	if err != nil {
		return nil, err
	}
	if !trainer.IsActive {
		return nil, util.ErrInvalidAccessCode
	}
	if err := s.Profiles.UpdatePersonalID(ctx, sess.UserID, &trainer.ID); err != nil {
		return nil, err
	}
	logger.Log.Info("Student linked to personal trainer", logger.UserID(sess.UserID), zap.String("personal_id", trainer.ID))
	return trainer, nil
}

func (s *PersonalService) Unlink(ctx context.Context, sess model.Session) error {
	if sess.PersonalID == nil {
		return util.ErrTrainerNotLinked
	}
	return s.Profiles.UpdatePersonalID(ctx, sess.UserID, nil)
}

// Linked 学员当前绑定的私教
func (s *PersonalService) Linked(ctx context.Context, sess model.Session) (*model.PersonalTrainer, error) {
	if sess.PersonalID == nil {
		return nil, util.ErrTrainerNotLinked
	}
	return s.Trainers.FindByID(ctx, *sess.PersonalID)
}

func (s *PersonalService) trainerFor(ctx context.Context, sess model.Session) (*model.PersonalTrainer, error) {
	if sess.Role != model.RolePersonal {
		return nil, util.ErrNotPersonalTrainer
	}
	trainer, err := s.Trainers.FindByProfileID(ctx, sess.UserID)
	if errors.Is(err, util.ErrTrainerNotFound) {
		return nil, util.ErrNotPersonalTrainer
	}
	return trainer, err
}

func (s *PersonalService) Students(ctx context.Context, sess model.Session) ([]model.Profile, error) {
	trainer, err := s.trainerFor(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.Profiles.FindByPersonalID(ctx, trainer.ID)
}

type TrainerProfileRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Specialty   string `json:"specialty"`
	Bio         string `json:"bio"`
	PaymentInfo string `json:"payment_info"`
	PlansInfo   string `json:"plans_info"`
}

// UpdateProfile 私教编辑自己的资料，空字段不覆盖
func (s *PersonalService) UpdateProfile(ctx context.Context, sess model.Session, req TrainerProfileRequest) (*model.PersonalTrainer, error) {
	trainer, err := s.trainerFor(ctx, sess)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		trainer.Name = v
	}
	if req.Phone != "" {
		trainer.Phone = req.Phone
	}
	if req.Specialty != "" {
		trainer.Specialty = req.Specialty
	}
	if req.Bio != "" {
		trainer.Bio = req.Bio
	}
	if req.PaymentInfo != "" {
		trainer.PaymentInfo = req.PaymentInfo
	}
	if req.PlansInfo != "" {
		trainer.PlansInfo = req.PlansInfo
	}
	if err := s.Trainers.Update(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}

func (s *PersonalService) UploadPhoto(ctx context.Context, sess model.Session, file io.ReadSeeker, filename string, size int64) (*model.PersonalTrainer, error) {
	trainer, err := s.trainerFor(ctx, sess)
	if err != nil {
		return nil, err
	}
	url, err := s.Storage.UploadImage(ctx, util.PhotoDirectory, file, filename, size)
	if err != nil {
		return nil, err
	}
	trainer.PhotoURL = &url
	if err := s.Trainers.Update(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}

type CreateTrainerRequest struct {
	ProfileID  *string `json:"profile_id"`
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Specialty  string  `json:"specialty"`
	AccessCode string  `json:"access_code"`
}

// Create 管理员创建私教；未提供访问码时随机生成
func (s *PersonalService) Create(ctx context.Context, req CreateTrainerRequest) (*model.PersonalTrainer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: trainer name is required", util.ErrInvalidTrainer)
	}
	if req.ProfileID != nil {
		if _, err := s.Profiles.FindByID(ctx, *req.ProfileID); err != nil {
			return nil, err
		}
	}

	code := NormalizeAccessCode(req.AccessCode)
	if code != "" {
		exists, err := s.Trainers.AccessCodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, util.ErrAccessCodeTaken
		}
	} else {
		var err error
		if code, err = s.uniqueAccessCode(ctx); err != nil {
			return nil, err
		}
	}

	trainer := &model.PersonalTrainer{
		ProfileID:  req.ProfileID,
		Name:       name,
		Email:      req.Email,
		Phone:      req.Phone,
		Specialty:  req.Specialty,
		AccessCode: code,
		IsActive:   true,
	}
	if err := s.Trainers.Create(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}

func (s *PersonalService) uniqueAccessCode(ctx context.Context) (string, error) {
	for i := 0; i < accessCodeAttempts; i++ {
		code, err := randomAccessCode()
		if err != nil {
			return "", err
		}
		exists, err := s.Trainers.AccessCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", util.ErrAccessCodeTaken
}

func randomAccessCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(accessCodeAlphabet)))
	for i := 0; i < accessCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(accessCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func (s *PersonalService) List(ctx context.Context) ([]model.PersonalTrainer, error) {
	return s.Trainers.ListWithStudentCount(ctx)
}
