package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"index" json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

type Unit struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID       `gorm:"type:uuid;index" json:"project_id"`
	UnitNumber string          `json:"unit_number"`
	UnitType   string          `json:"unit_type"`
	Price      decimal.Decimal `gorm:"type:numeric(16,2)" json:"price"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Buyer struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"index" json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	UnitID    *uuid.UUID `gorm:"type:uuid" json:"unit_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
