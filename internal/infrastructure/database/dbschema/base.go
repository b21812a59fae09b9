package dbschema

import "time"

// BaseModel carries the surrogate key and audit timestamps shared by most
// tables in the agent_api schema.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
