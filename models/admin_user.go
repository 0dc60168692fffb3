package models

import (
	"time"
)

const (
	RoleAdmin    = 1
	RoleOperator = 2
)

type AdminUser struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName string     `gorm:"column:first_name" json:"first_name"`
	LastName  string     `gorm:"column:last_name" json:"last_name"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	RoleID    int        `gorm:"column:role_id" json:"role_id"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (AdminUser) TableName() string { return "admin_users" }

// AuditLog records an admin action. Writes are fire-and-forget: a failed
// audit insert never fails the operation that triggered it.
type AuditLog struct {
	LogID     uint      `gorm:"primaryKey;autoIncrement;column:log_id" json:"log_id"`
	Actor     string    `gorm:"column:actor;type:varchar(64);not null" json:"actor"`
	Action    string    `gorm:"column:action;type:varchar(64);not null" json:"action"`
	Target    string    `gorm:"column:target;type:varchar(128)" json:"target,omitempty"`
	Detail    string    `gorm:"column:detail;type:text" json:"detail,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
