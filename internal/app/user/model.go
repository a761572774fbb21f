package user

import "time"

// User is fixed roster data: members are seeded at startup and never created
// or destroyed at runtime. Only the avatar reference is mutable.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Avatar    string    `json:"avatar"` // URL or initials
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserListResponse struct {
	Users []*User `json:"users"`
}

type AvatarResponse struct {
	ID     string `json:"id"`
	Avatar string `json:"avatar"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
