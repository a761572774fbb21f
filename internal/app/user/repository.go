package user

import "gorm.io/gorm"

type Repository interface {
	GetAllUsers() ([]*User, error)
	GetUserByID(id string) (*User, error)
	UpdateAvatar(id, avatar string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAllUsers() ([]*User, error) {
	var users []*User
	err := r.db.
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) GetUserByID(id string) (*User, error) {
	var user User
	err := r.db.Where("id = ?", id).First(&user).Error
	return &user, err
}

func (r *repository) UpdateAvatar(id, avatar string) error {
	return r.db.Model(&User{}).Where("id = ?", id).Update("avatar", avatar).Error
}
