package models

import (
	"time"
)

type Faculty struct {
	FacultyID   int        `gorm:"primaryKey;column:faculty_id" json:"faculty_id"`
	FacultyName string     `gorm:"column:faculty_name" json:"faculty_name"`
	FacultyCode string     `gorm:"column:faculty_code;unique" json:"faculty_code"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Departments []Department `gorm:"foreignKey:FacultyID" json:"departments,omitempty"`
}

type Department struct {
	DepartmentID   int        `gorm:"primaryKey;column:department_id" json:"department_id"`
	FacultyID      int        `gorm:"column:faculty_id" json:"faculty_id"`
	DepartmentName string     `gorm:"column:department_name" json:"department_name"`
	DepartmentCode string     `gorm:"column:department_code;unique" json:"department_code"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Faculty    Faculty     `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Programmes []Programme `gorm:"foreignKey:DepartmentID" json:"programmes,omitempty"`
}

type Programme struct {
	ProgrammeID   int        `gorm:"primaryKey;column:programme_id" json:"programme_id"`
	DepartmentID  int        `gorm:"column:department_id" json:"department_id"`
	ProgrammeName string     `gorm:"column:programme_name" json:"programme_name"`
	ProgrammeCode string     `gorm:"column:programme_code;unique" json:"programme_code"`
	CutoffMark    *int       `gorm:"column:cutoff_mark" json:"cutoff_mark,omitempty"`
	IsActive      bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Faculty) TableName() string    { return "faculties" }
func (Department) TableName() string { return "departments" }
func (Programme) TableName() string  { return "programmes" }
