package bot

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyWatching возвращается при попытке запустить вторую
	// автопроверку для того же чата.
	ErrAlreadyWatching = errors.New("auto check is already running for this chat")
	// ErrNotWatching возвращается при попытке остановить автопроверку,
	// которая не запущена.
	ErrNotWatching = errors.New("auto check is not running for this chat")
)

// watch — одно активное наблюдение за билетами.
type watch struct {
	id     string
	cancel context.CancelFunc
}

// WatchStore — потокобезопасное in-memory хранилище активных автопроверок
// по идентификатору чата. Инвариант: не более одного наблюдения на чат.
// Состояние не переживает перезапуск процесса.
type WatchStore struct {
	mu      sync.Mutex
	watches map[int64]*watch
}

// NewWatchStore создает новый экземпляр WatchStore.
func NewWatchStore() *WatchStore {
	return &WatchStore{
		watches: make(map[int64]*watch),
	}
}

// Start регистрирует наблюдение для чата и возвращает дочерний контекст,
// в котором должен работать цикл автопроверки, и идентификатор наблюдения
// для корреляции логов. Если наблюдение уже зарегистрировано, возвращает
// ErrAlreadyWatching, не создавая нового.
func (s *WatchStore) Start(ctx context.Context, chatID int64) (context.Context, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watches[chatID]; ok {
		return nil, "", ErrAlreadyWatching
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w := &watch{id: uuid.NewString(), cancel: cancel}
	s.watches[chatID] = w

	return watchCtx, w.id, nil
}

// Stop отменяет наблюдение для чата и сразу удаляет его из хранилища,
// не дожидаясь, пока цикл заметит отмену. Если наблюдения нет,
// возвращает ErrNotWatching.
func (s *WatchStore) Stop(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.watches[chatID]
	if !ok {
		return ErrNotWatching
	}

	delete(s.watches, chatID)
	w.cancel()
	return nil
}

// Active сообщает, зарегистрировано ли наблюдение для чата.
func (s *WatchStore) Active(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.watches[chatID]
	return ok
}

// Len возвращает количество активных наблюдений.
func (s *WatchStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches)
}

// StopAll отменяет и удаляет все наблюдения. Используется при завершении
// процесса.
func (s *WatchStore) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for chatID, w := range s.watches {
		w.cancel()
		delete(s.watches, chatID)
	}
}
