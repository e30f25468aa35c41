package tree

import (
	"context"
	"sync"
)

/*
Store is an interface to manage a store
where models can be saved, retrieved and
deleted by name.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type Store interface {
	// Save takes a name and a model and stores
	// the model under the name, replacing any
	// model previously stored with it. It returns
	// an error if the model cannot be stored.
	Save(ctx context.Context, name string, m *Model) error
	// Load takes a name and returns the model in
	// the store with that name, ErrModelNotFound
	// if there is none, or another error if the
	// store cannot be queried
	Load(ctx context.Context, name string) (*Model, error)
	// Delete takes a name and deletes the model
	// stored under it, if any. It returns an error
	// if the deletion cannot be performed.
	Delete(ctx context.Context, name string) error
	// Close closes the store, implementations should
	// freeing any resources in use as well as ensure
	// any pending changes are applied before returning
	// (unless the context expires). It returns an error
	// if the Close cannot be completed (because of the
	// context or another error)
	Close(ctx context.Context) error
}

type memoryStore struct {
	models map[string]*Model
	lock   *sync.RWMutex
}

// NewMemoryStore returns an implementation
// of Store with the process memory space
// as underlying backend
func NewMemoryStore() Store {
	return &memoryStore{
		models: make(map[string]*Model),
		lock:   &sync.RWMutex{},
	}
}

func (ms *memoryStore) Save(ctx context.Context, name string, m *Model) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		ms.models[name] = m
		return nil
	})
}

func (ms *memoryStore) Load(ctx context.Context, name string) (*Model, error) {
	var m *Model
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		m = ms.models[name]
		return nil
	})
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrModelNotFound
	}
	return m, nil
}

func (ms *memoryStore) Delete(ctx context.Context, name string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.models, name)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *memoryStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		ms.lock.Lock()
		select {
		case <-ctx.Done():
			ms.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.Unlock()
	}
	return f(ctx)
}

func (ms *memoryStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		ms.lock.RLock()
		select {
		case <-ctx.Done():
			ms.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.RUnlock()
	}
	return f(ctx)
}
