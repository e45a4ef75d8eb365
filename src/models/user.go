package models

import "qrticket/src/types"

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	UID   string `gorm:"uniqueIndex" json:"uid,omitempty"`
	Email string `gorm:"uniqueIndex" json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `gorm:"default:'organizer'" json:"role,omitempty"`

	types.Timestamps
}
