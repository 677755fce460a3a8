package models

import "time"

// Category рубрика каталога аудио-историй.
type Category struct {
	ID   int
	Name string
}

// Audio запись каталога аудио-историй.
type Audio struct {
	ID          int
	Title       string
	Artist      string
	Description string
	CategoryID  *int
	PlayCount   int
	IsFeatured  bool
	CreatedAt   time.Time
}
