package model

import (
	"time"
)

// Status
const (
	UserNormal  int32 = 0
	UserBlocked int32 = 1
	UserClosed  int32 = 2
)

// User is the account master record. Registration, login and profile CRUD
// live outside this core; the gateway only reads it to admit connections.
type User struct {
	UserID    string     `bson:"user_id" json:"userId"`
	UserName  string     `bson:"user_name" json:"userName"`
	Avatar    string     `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Status    int32      `bson:"status,omitempty" json:"-"`
	IsDeleted bool       `bson:"is_deleted,omitempty" json:"-"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`

	CreateTime time.Time `bson:"create_time" json:"-"`
	UpdateTime time.Time `bson:"update_time" json:"-"`
}

func (u *User) GetTableName() string {
	return "users"
}

// Summary is the display projection attached to an authenticated session.
type Summary struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar,omitempty"`
}

func (u *User) Summary() Summary {
	return Summary{UserID: u.UserID, UserName: u.UserName, Avatar: u.Avatar}
}
