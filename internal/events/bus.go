package events

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

const (
	// DefaultWorkers число обработчиков по умолчанию
	DefaultWorkers = 4
	// DefaultQueueSize размер очереди по умолчанию
	DefaultQueueSize = 256
	// defaultSyncTimeout ограничение на одну синхронизацию
	defaultSyncTimeout = 30 * time.Second
)

// AssignmentChanged событие изменения состава назначений смены
type AssignmentChanged struct {
	ShiftID int64
}

// Options параметры шины
type Options struct {
	// Workers число обработчиков. 0 - события обрабатываются синхронно в Publish.
	Workers int
	// QueueSize ёмкость очереди. При переполнении событие обрабатывается в отдельной горутине.
	QueueSize int
	// SyncTimeout таймаут одной синхронизации
	SyncTimeout time.Duration
}

// Bus шина событий назначений.
// Синхронизации одной смены никогда не выполняются одновременно,
// разные смены обрабатываются параллельно.
type Bus struct {
	syncer CapacitySyncer
	logger Logger

	opts  Options
	queue chan AssignmentChanged
	locks *xsync.Map[int64, *shiftLock]

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewBus создает шину и запускает обработчики
func NewBus(syncer CapacitySyncer, logger Logger, opts Options) *Bus {
	if opts.Workers < 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.SyncTimeout <= 0 {
		opts.SyncTimeout = defaultSyncTimeout
	}

	b := &Bus{
		syncer: syncer,
		logger: logger,
		opts:   opts,
		locks:  xsync.NewMap[int64, *shiftLock](),
	}

	if opts.Workers > 0 {
		b.queue = make(chan AssignmentChanged, opts.QueueSize)
		for i := 0; i < opts.Workers; i++ {
			b.wg.Add(1)
			go b.worker()
		}
	}

	return b
}

// Publish публикует событие. Никогда не блокируется на заполненной очереди.
// После Close события обрабатываются синхронно.
func (b *Bus) Publish(event AssignmentChanged) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed || b.queue == nil {
		b.handle(event)
		return
	}

	select {
	case b.queue <- event:
	default:
		b.logger.Warn("EventBus: queue is full, syncing shift=%d in background", event.ShiftID)
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.handle(event)
		}()
	}
}

// Close прекращает приём событий в очередь и дожидается обработки уже принятых
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.queue != nil {
		close(b.queue)
	}
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("EventBus: stopped")
}

func (b *Bus) worker() {
	defer b.wg.Done()

	for event := range b.queue {
		b.handle(event)
	}
}

// handle выполняет синхронизацию под мьютексом смены
func (b *Bus) handle(event AssignmentChanged) {
	lock := b.acquire(event.ShiftID)
	defer b.release(event.ShiftID, lock)

	ctx, cancel := context.WithTimeout(context.Background(), b.opts.SyncTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("EventBus: sync of shift=%d panicked: %v", event.ShiftID, r)
		}
	}()

	b.syncer.Sync(ctx, event.ShiftID)
}

// shiftLock мьютекс смены и число горутин, которые его держат или ждут.
// refs меняется только внутри Compute по ключу смены.
type shiftLock struct {
	mu   sync.Mutex
	refs int
}

func (b *Bus) acquire(shiftID int64) *shiftLock {
	lock, _ := b.locks.Compute(shiftID, func(old *shiftLock, loaded bool) (*shiftLock, xsync.ComputeOp) {
		if !loaded {
			old = &shiftLock{}
		}
		old.refs++
		return old, xsync.UpdateOp
	})
	lock.mu.Lock()
	return lock
}

// release отпускает мьютекс и удаляет запись, когда смену больше никто не ждёт
func (b *Bus) release(shiftID int64, lock *shiftLock) {
	lock.mu.Unlock()
	b.locks.Compute(shiftID, func(old *shiftLock, loaded bool) (*shiftLock, xsync.ComputeOp) {
		old.refs--
		if old.refs == 0 {
			return old, xsync.DeleteOp
		}
		return old, xsync.UpdateOp
	})
}
