package models

import "time"

type UserRole string

const (
	RoleAuthor UserRole = "author"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"size:30;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"size:60;not null"`
	Role      UserRole  `json:"role" gorm:"size:10;not null;default:'author'"`
	Posts     []Post    `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `json:"created_at"`
}
