package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EntryModel mirrors the 'entries' table. PostgreSQL generates UUIDs via
// uuid_generate_v7(). Tags are stored as a native text[] column.
type EntryModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	ContentText string         `gorm:"type:text;not null"`
	ContentType string         `gorm:"type:varchar(20);not null;default:text"`
	Tags        pq.StringArray `gorm:"type:text[]"`
	IsPublic    bool           `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Author *ProfileModel `gorm:"foreignKey:UserID;references:ID"`
}

// TableName explicitly sets the table name for GORM.
func (EntryModel) TableName() string {
	return "entries"
}
