package models

import (
	"time"

	"github.com/google/uuid"
)

type Image struct {
	ID        int64     `db:"id" json:"id"`
	Filename  string    `db:"filename" json:"filename"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
