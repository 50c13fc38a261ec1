package app

import (
	"context"
	"errors"
	"sync"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/secondary"
)

// Documents serializes read-modify-write cycles on report documents so that
// at most one store operation per identity is in flight within this process.
// Writers in other processes or stations are not coordinated here.
type Documents struct {
	repo secondary.ReportRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDocuments creates a Documents guard over repo.
func NewDocuments(repo secondary.ReportRepository) *Documents {
	return &Documents{
		repo:  repo,
		locks: make(map[string]*sync.Mutex),
	}
}

// Repository returns the underlying report repository.
func (d *Documents) Repository() secondary.ReportRepository {
	return d.repo
}

func (d *Documents) lock(id identity.BoardIdentity) func() {
	key := id.String()

	d.mu.Lock()
	l, ok := d.locks[key]
	if !ok {
		l = &sync.Mutex{}
		d.locks[key] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Load reads the document for id under its lock.
func (d *Documents) Load(ctx context.Context, id identity.BoardIdentity) (*report.ReportFile, error) {
	defer d.lock(id)()
	return d.repo.Load(ctx, id)
}

// Create writes a brand new document for id under its lock.
func (d *Documents) Create(ctx context.Context, id identity.BoardIdentity, doc report.ReportFile) error {
	if err := identity.CanStore(id).Error(); err != nil {
		return err
	}
	defer d.lock(id)()
	return d.repo.Create(ctx, id, &doc)
}

// Update loads the document for id, applies fn and writes the result back.
// When the document is missing and create is set, fn receives an empty
// document which is then created; otherwise secondary.ErrNotFound is
// returned and nothing is written.
func (d *Documents) Update(ctx context.Context, id identity.BoardIdentity, create bool, fn func(report.ReportFile) (report.ReportFile, error)) (*report.ReportFile, error) {
	if err := identity.CanStore(id).Error(); err != nil {
		return nil, err
	}
	defer d.lock(id)()

	isNew := false
	current, err := d.repo.Load(ctx, id)
	if err != nil {
		if !create || !errors.Is(err, secondary.ErrNotFound) {
			return nil, err
		}
		empty := report.ReportFile{}.Normalize()
		current = &empty
		isNew = true
	}

	next, err := fn(*current)
	if err != nil {
		return nil, err
	}

	if isNew {
		err = d.repo.Create(ctx, id, &next)
	} else {
		err = d.repo.Save(ctx, id, &next)
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}
