package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
)

// UserService 持久用户查询业务接口（管理端用户列表）
type UserService interface {
	List(ctx context.Context) ([]model.PersistentUser, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context) ([]model.PersistentUser, error) {
	return s.repo.PersistentUser.List(ctx)
}
