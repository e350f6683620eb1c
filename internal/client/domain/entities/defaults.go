package entities

import "time"

// WelcomeNoteID - id приветственной заметки первого запуска.
const WelcomeNoteID = "welcome-note"

// DefaultCategories возвращает засеянные категории первого запуска.
func DefaultCategories(now time.Time) []Category {
	seed := []struct{ id, name, icon, color string }{
		{"minhas-notas", "Minhas Notas", "notes", "#3B82F6"},
		{"favoritos", "Favoritos", "star", "#F59E0B"},
		{"tarefas", "Tarefas", "tasks", "#10B981"},
		{"ideias", "Ideias", "lightbulb", "#F97316"},
		{"anotacoes-rapidas", "Anotações rápidas", "bolt", "#8B5CF6"},
		{"arquivadas", "Arquivadas", "archive", "#6B7280"},
		{"lixeira", "Lixeira", "trash", "#EF4444"},
	}

	cats := make([]Category, 0, len(seed))
	for _, s := range seed {
		cats = append(cats, Category{
			ID:         s.id,
			Name:       s.name,
			Icon:       s.icon,
			Color:      s.color,
			IsDefault:  true,
			SyncStatus: SyncSynced,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return cats
}

const welcomeContent = `Olá! Seja bem-vindo ao seu novo aplicativo de notas.

Aqui estão algumas dicas para começar:

📝 Criando notas: use "notas note add" para registrar uma nota
📁 Organizando: crie categorias personalizadas para organizar suas notas
⭐ Favoritos: marque suas notas importantes como favoritas
🗂️ Arquivos: arquive notas antigas para manter sua área de trabalho limpa
🔄 Sincronização: suas notas são sincronizadas automaticamente na nuvem

Aproveite e organize suas ideias de forma eficiente!`

// WelcomeNote возвращает приветственную заметку.
func WelcomeNote(now time.Time) Note {
	return Note{
		ID:            WelcomeNoteID,
		Title:         "🎉 Bem-vindo ao NotasApp!",
		Content:       welcomeContent,
		Categories:    []string{"minhas-notas"},
		Tags:          []string{"boas-vindas", "tutorial"},
		CreatedAt:     now,
		UpdatedAt:     now,
		SyncStatus:    SyncSynced,
		SchemaVersion: CurrentSchemaVersion,
	}
}
