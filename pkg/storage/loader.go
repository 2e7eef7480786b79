package storage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matst80/escape-finder/pkg/types"
	"go.uber.org/zap"
)

// Loader memoizes the dataset for the lifetime of the process. The source is
// read at most once, callers arriving during the read wait for it and every
// caller observes the same rooms or the same error. A failed load is not
// retried, create a new Loader to read again.
type Loader struct {
	source  Source
	logger  *zap.Logger
	once    sync.Once
	done    chan struct{}
	rooms   []types.Room
	err     error
	fetches atomic.Int32
}

func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		source: source,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Load returns the rooms. The context bounds how long this caller waits, it
// does not cancel a fetch other callers are waiting on.
func (l *Loader) Load(ctx context.Context) ([]types.Room, error) {
	l.Start()
	if l.Loaded() {
		return l.rooms, l.err
	}
	select {
	case <-l.done:
		return l.rooms, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Start begins the fetch in the background without waiting for it.
func (l *Loader) Start() {
	l.once.Do(func() {
		go l.fetch()
	})
}

// Loaded reports whether the fetch has finished, successfully or not.
func (l *Loader) Loaded() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Ready reports whether the rooms were loaded successfully.
func (l *Loader) Ready() bool {
	return l.Loaded() && l.err == nil
}

func (l *Loader) Fetches() int {
	return int(l.fetches.Load())
}

func (l *Loader) fetch() {
	defer close(l.done)
	l.fetches.Add(1)
	s := time.Now()
	ds, err := l.source.Fetch(context.Background())
	if err == nil {
		err = ds.Validate()
	}
	if err != nil {
		l.err = fmt.Errorf("load rooms from %s: %w", l.source, err)
		l.logger.Error("failed to load rooms", zap.Stringer("source", l.source), zap.Error(err))
		return
	}
	l.rooms = ds.Rooms
	if l.rooms == nil {
		l.rooms = []types.Room{}
	}
	l.logger.Info("rooms loaded",
		zap.Stringer("source", l.source),
		zap.Int("rooms", len(l.rooms)),
		zap.Duration("duration", time.Since(s)))
}
