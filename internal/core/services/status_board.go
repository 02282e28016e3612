package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/logger"
)

// statusBoard holds the current status per platform and fans changes out to watchers.
// Sends never block: a watcher whose buffer is full misses the event.
type statusBoard struct {
	mu       sync.Mutex
	statuses map[domain.Platform]domain.AuthStatus
	// logged marks platforms whose failure was already reported this session.
	logged   map[domain.Platform]bool
	watchers map[int]chan domain.StatusChange
	nextID   int
	now      func() time.Time
}

func newStatusBoard(now func() time.Time) *statusBoard {
	return &statusBoard{
		statuses: make(map[domain.Platform]domain.AuthStatus),
		logged:   make(map[domain.Platform]bool),
		watchers: make(map[int]chan domain.StatusChange),
		now:      now,
	}
}

func (b *statusBoard) get(p domain.Platform) domain.AuthStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status, ok := b.statuses[p]; ok {
		return status
	}
	return domain.NotStarted()
}

// set installs a status and notifies watchers.
// A failure is logged only once until the platform is reset.
func (b *statusBoard) set(p domain.Platform, status domain.AuthStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.statuses[p] = status
	if status.Kind == domain.StatusFailed && !b.logged[p] {
		b.logged[p] = true
		logger.Error("%s authorization failed: %s", p.DisplayName(), status.Reason)
	}
	b.notifyLocked(p, status)
}

// reset returns a platform to NotStarted and re-arms failure logging.
func (b *statusBoard) reset(p domain.Platform) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logged[p] = false
	status := domain.NotStarted()
	b.statuses[p] = status
	b.notifyLocked(p, status)
}

func (b *statusBoard) notifyLocked(p domain.Platform, status domain.AuthStatus) {
	change := domain.StatusChange{Platform: p, Status: status, At: b.now()}
	for _, ch := range b.watchers {
		select {
		case ch <- change:
		default:
		}
	}
}

func (b *statusBoard) watch(buffer int) (<-chan domain.StatusChange, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.StatusChange, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.watchers, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}
