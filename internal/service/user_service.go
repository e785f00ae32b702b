package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
)

type UserService struct {
	UserRepo    *repository.UserRepository
	AttemptRepo *repository.AttemptRepository
}

func NewUserService(userRepo *repository.UserRepository, attemptRepo *repository.AttemptRepository) *UserService {
	return &UserService{UserRepo: userRepo, AttemptRepo: attemptRepo}
}

type ProfileUpdate struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != "" {
		user.Name = *update.Name
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetAvatar(userID uint, url string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}
	user.Avatar = url
	return s.UserRepo.Update(user)
}

// RecentAttempts 查询学生最近的测验记录，用于个人面板展示
func (s *UserService) RecentAttempts(userID uint, limit int) ([]model.Attempt, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.AttemptRepo.ListByUser(userID, limit)
}
