package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer of the store. DocumentID is the national identity
// document and must be unique across active and inactive clients.
type Client struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Email      string    `gorm:"column:email;not null"`
	DocumentID string    `gorm:"column:document_id;not null;uniqueIndex"`
	Phone      string    `gorm:"column:phone"`
	Address    string    `gorm:"column:address"`
	Active     bool      `gorm:"column:active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
