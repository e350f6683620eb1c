package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Collection - имя коллекции документов пользователя.
type Collection string

// Коллекции сервера.
const (
	Notes      Collection = "notes"
	Categories Collection = "categories"
)

// Ошибки документов.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrInvalidDocument = errors.New("document must be a JSON object")
)

// Record - документ клиента (заметка или категория), хранимый как есть.
// ServerVersion увеличивается при каждой записи.
type Record struct {
	ID            string
	UserID        string
	Payload       json.RawMessage
	ServerVersion int64
	UpdatedAt     time.Time
}

// Document возвращает payload с актуальными id, serverVersion и syncStatus.
func (r Record) Document() (json.RawMessage, error) {
	fields, err := DecodeDocument(r.Payload)
	if err != nil {
		return nil, err
	}

	id, _ := json.Marshal(r.ID)
	version, _ := json.Marshal(r.ServerVersion)
	fields["id"] = id
	fields["serverVersion"] = version
	fields["syncStatus"] = json.RawMessage(`"synced"`)

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}

// DecodeDocument разбирает JSON-объект документа.
func DecodeDocument(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, ErrInvalidDocument
	}
	return fields, nil
}

// DocumentID возвращает строковое поле id документа или пустую строку.
func DocumentID(raw json.RawMessage) (string, error) {
	fields, err := DecodeDocument(raw)
	if err != nil {
		return "", err
	}
	var id string
	if v, ok := fields["id"]; ok {
		_ = json.Unmarshal(v, &id)
	}
	return id, nil
}
