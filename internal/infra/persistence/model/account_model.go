// Package model contains the GORM-specific structs for the database tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminModel is the GORM-specific struct for the 'admins' table. It holds
// both ADMIN and SUPER_ADMIN rows, discriminated by the role column.
type AdminModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);index"`
	Phone        string    `gorm:"type:varchar(50);index"`
	Role         string    `gorm:"type:varchar(20);not null;default:'ADMIN'"`
	AreaState    string    `gorm:"type:varchar(100)"`
	IsActive     bool      `gorm:"not null;default:true"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AdminModel) TableName() string {
	return "admins"
}

// SupervisorModel is the GORM-specific struct for the 'supervisors' table.
type SupervisorModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);index"`
	Phone        string    `gorm:"type:varchar(50);index"`
	Code         string    `gorm:"type:varchar(50)"`
	AreaState    string    `gorm:"type:varchar(100)"`
	IsActive     bool      `gorm:"not null;default:true"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (SupervisorModel) TableName() string {
	return "supervisors"
}

// GuardModel is the GORM-specific struct for the 'guards' table.
type GuardModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);index"`
	Phone        string    `gorm:"type:varchar(50);index"`
	EmployeeCode string    `gorm:"type:varchar(50)"`
	SupervisorID uuid.UUID `gorm:"type:uuid;not null;index"`
	AreaState    string    `gorm:"type:varchar(100)"`
	IsActive     bool      `gorm:"not null;default:true"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (GuardModel) TableName() string {
	return "guards"
}
