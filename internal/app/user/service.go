package user

import (
	"context"
	"fmt"
	"mime/multipart"

	"atomflow/internal/providers/minio"

	"go.uber.org/zap"
)

type Service interface {
	GetAllUsers() ([]*User, error)
	GetUserByID(id string) (*User, error)
	SetAvatar(ctx context.Context, id string, file *multipart.FileHeader) (*User, error)
}

type service struct {
	repo   Repository
	minioP *minio.MinioProvider
	logger *zap.SugaredLogger
}

func NewService(repo Repository, minioP *minio.MinioProvider, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		minioP: minioP,
		logger: logger.Sugar(),
	}
}

func (s *service) GetAllUsers() ([]*User, error) {
	return s.repo.GetAllUsers()
}

func (s *service) GetUserByID(id string) (*User, error) {
	return s.repo.GetUserByID(id)
}

func (s *service) SetAvatar(ctx context.Context, id string, file *multipart.FileHeader) (*User, error) {
	if s.minioP == nil {
		return nil, fmt.Errorf("avatar storage is not available")
	}

	user, err := s.repo.GetUserByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	url, err := s.minioP.UploadAvatar(ctx, user.ID, file.Filename, contentType, file.Size, src)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAvatar(user.ID, url); err != nil {
		return nil, fmt.Errorf("failed to store avatar reference: %w", err)
	}

	user.Avatar = url
	s.logger.Infow("Avatar updated", "user_id", user.ID)
	return user, nil
}
