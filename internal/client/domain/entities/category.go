package entities

import "time"

// DefaultCategoryIcon - иконка новой пользовательской категории.
const DefaultCategoryIcon = "📁"

// Category представляет категорию заметок.
type Category struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Color         string     `json:"color"`
	Icon          string     `json:"icon"`
	IsDefault     bool       `json:"isDefault"`
	SyncStatus    SyncStatus `json:"syncStatus"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	LocalVersion  int64      `json:"localVersion"`
	ServerVersion int64      `json:"serverVersion"`
}

// CategoryPatch - изменяемые поля категории. nil означает "не менять".
type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
}
