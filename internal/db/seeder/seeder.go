package seeder

import (
	"atomflow/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	if err := s.seedUsers(); err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

func (s *Seeder) seedUsers() error {
	var count int64
	s.db.Model(&user.User{}).Count(&count)
	if count > 0 {
		s.logger.Info("Users already exist, skipping seed")
		return nil
	}

	users := []user.User{
		{ID: "arta", Name: "Arta", Avatar: "assets/avatars/arta.svg"},
		{ID: "tomaz", Name: "Tomaz", Avatar: "assets/avatars/tomaz.svg"},
		{ID: "kawe", Name: "Kawê", Avatar: "assets/avatars/kawe.svg"},
	}

	if err := s.db.Create(&users).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded users", zap.Int("count", len(users)))
	return nil
}
