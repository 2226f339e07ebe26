package models

import (
	"fmt"
	"strings"
	"time"
)

type Note struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     int64     `json:"color"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

const previewLen = 40

// Summary renders a single listing line: id, date, title and the start of
// the content.
func (n *Note) Summary() string {
	preview := strings.Join(strings.Fields(n.Content), " ")
	if r := []rune(preview); len(r) > previewLen {
		preview = string(r[:previewLen]) + "..."
	}
	return fmt.Sprintf("%s  %s  %s  %s", n.ID, n.CreatedAt.Local().Format(time.DateTime), n.Title, preview)
}
