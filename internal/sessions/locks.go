package sessions

import "sync"

// Locks: мьютекс на каждого пользователя. Записи удаляются, когда
// ими никто не пользуется, так что карта не растёт бесконечно.
type Locks struct {
	mu    sync.Mutex
	items map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{items: make(map[int64]*lockEntry)}
}

// Lock блокирует ключ и возвращает функцию разблокировки.
func (l *Locks) Lock(telegramID int64) (unlock func()) {
	l.mu.Lock()
	e, ok := l.items[telegramID]
	if !ok {
		e = &lockEntry{}
		l.items[telegramID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.items, telegramID)
		}
		l.mu.Unlock()
	}
}

func (l *Locks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
