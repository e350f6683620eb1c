package entities

import "time"

// AppSettings - пользовательские настройки клиента.
type AppSettings struct {
	Theme          string `json:"theme"`
	ViewMode       string `json:"viewMode"`
	AutoSync       bool   `json:"autoSync"`
	BackupInterval int    `json:"backupInterval"`
	Language       string `json:"language"`
}

// DefaultSettings возвращает настройки первого запуска.
func DefaultSettings() AppSettings {
	return AppSettings{
		Theme:          "light",
		ViewMode:       "grid",
		AutoSync:       true,
		BackupInterval: 24,
		Language:       "pt-BR",
	}
}

// BackupVersion - версия формата файла резервной копии.
const BackupVersion = "3.0.0"

// Backup - документ экспорта данных клиента.
type Backup struct {
	Notes      []Note       `json:"notes"`
	Categories []Category   `json:"categories"`
	Settings   *AppSettings `json:"settings,omitempty"`
	ExportedAt time.Time    `json:"exportedAt"`
	Version    string       `json:"version"`
}

// User - профиль пользователя удаленного API.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}
