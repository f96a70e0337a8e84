package history

import (
	"sync"
	"time"
)

// Entry один выполненный перевод.
type Entry struct {
	ID        string
	Direction string
	Source    string
	Result    string
	At        time.Time
}

const initialCap = 16

// History последние переводы сессии в пределах maxRecords.
type History struct {
	mu         sync.Mutex
	entries    []Entry
	maxRecords int
}

// New создаёт историю; maxRecords <= 0 — без ограничения.
func New(maxRecords int) *History {
	if maxRecords < 0 {
		maxRecords = 0
	}
	// Ёмкость растёт по мере добавления: лимит может быть очень большим
	return &History{entries: make([]Entry, 0, min(maxRecords, initialCap)), maxRecords: maxRecords}
}

// Append добавляет запись, вытесняя самые старые.
func (h *History) Append(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	if h.maxRecords > 0 && len(h.entries) > h.maxRecords {
		// Оставляем последние maxRecords элементов
		h.entries = h.entries[len(h.entries)-h.maxRecords:]
	}
}

// Entries копия записей, от старых к новым.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
