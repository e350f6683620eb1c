// Package app реализует сценарии локального клиента заметок: хранение
// снимков, синхронизацию, фоновые задачи и резервные копии.
package app

import "errors"

// Ошибки уровня бизнес-логики.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrOffline          = errors.New("remote api is offline")
	ErrSyncInProgress   = errors.New("sync already in progress")
	ErrSyncFailed       = errors.New("sync failed")
	ErrAuthFailed       = errors.New("authentication failed")
	ErrInvalidBackup    = errors.New("invalid backup file")
	ErrRepositoryClosed = errors.New("repository is closed")
)
