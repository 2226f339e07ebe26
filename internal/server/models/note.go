package models

import "time"

type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	Color     int64
	CreatedAt time.Time
}
