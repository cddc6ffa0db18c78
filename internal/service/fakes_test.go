package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Cheertaboi/coupon-ledger/internal/models"
	"github.com/Cheertaboi/coupon-ledger/internal/repository"
	"github.com/Cheertaboi/coupon-ledger/pkg/db"
)

// memStore backs the fake repositories. Each call is atomic on its own but
// transactions are not isolated, so any cross-call atomicity in the tests
// comes from the service itself.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	clock     time.Time
	issued    map[int64]models.IssuedCoupon
	completed map[int64]models.CompletedCoupon
	guestbook []models.GuestbookEntry
	failWith  error
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		issued:    make(map[int64]models.IssuedCoupon),
		completed: make(map[int64]models.CompletedCoupon),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type fakeTx struct{}

func (fakeTx) DB() db.DBTX { return nil }

func (fakeTx) WithTx(ctx context.Context, fn func(q db.DBTX) error) error {
	return fn(nil)
}

type fakeIssuedRepo struct{ *memStore }

func (r fakeIssuedRepo) List(ctx context.Context, q db.DBTX) ([]models.IssuedCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := []models.IssuedCoupon{}
	for _, c := range r.issued {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.IssuedCoupon) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r fakeIssuedRepo) Get(ctx context.Context, q db.DBTX, id int64) (*models.IssuedCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	c, ok := r.issued[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r fakeIssuedRepo) exists(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.issued[id]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r fakeIssuedRepo) LockForUpdate(ctx context.Context, q db.DBTX, id int64) error {
	return r.exists(id)
}

func (r fakeIssuedRepo) LockForShare(ctx context.Context, q db.DBTX, id int64) error {
	return r.exists(id)
}

func (r fakeIssuedRepo) Create(ctx context.Context, q db.DBTX, in models.IssuedInput) (*models.IssuedCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	c := models.IssuedCoupon{
		ID: r.id(), Date: in.Date, Worker: in.Worker, Content: in.Content,
		Amount: in.Amount, Issuer: in.Issuer, CreatedAt: r.tick(),
	}
	r.issued[c.ID] = c
	return &c, nil
}

func (r fakeIssuedRepo) Update(ctx context.Context, q db.DBTX, id int64, in models.IssuedInput) (*models.IssuedCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	c, ok := r.issued[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Date, c.Worker, c.Content, c.Amount, c.Issuer = in.Date, in.Worker, in.Content, in.Amount, in.Issuer
	r.issued[id] = c
	return &c, nil
}

func (r fakeIssuedRepo) Delete(ctx context.Context, q db.DBTX, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.issued[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.issued, id)
	// ON DELETE SET NULL
	for cid, c := range r.completed {
		if c.IssuedID != nil && *c.IssuedID == id {
			c.IssuedID = nil
			r.completed[cid] = c
		}
	}
	return nil
}

func (r fakeIssuedRepo) Count(ctx context.Context, q db.DBTX) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.issued)), r.failWith
}

type fakeCompletedRepo struct{ *memStore }

func (r fakeCompletedRepo) filter(keep func(models.CompletedCoupon) bool) ([]models.CompletedCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := []models.CompletedCoupon{}
	for _, c := range r.completed {
		if keep(c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.CompletedCoupon) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r fakeCompletedRepo) List(ctx context.Context, q db.DBTX) ([]models.CompletedCoupon, error) {
	return r.filter(func(models.CompletedCoupon) bool { return true })
}

func (r fakeCompletedRepo) ListByIssued(ctx context.Context, q db.DBTX, issuedID int64) ([]models.CompletedCoupon, error) {
	return r.filter(func(c models.CompletedCoupon) bool { return c.IssuedID != nil && *c.IssuedID == issuedID })
}

func (r fakeCompletedRepo) Get(ctx context.Context, q db.DBTX, id int64) (*models.CompletedCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	c, ok := r.completed[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r fakeCompletedRepo) GetForUpdate(ctx context.Context, q db.DBTX, id int64) (*models.CompletedCoupon, error) {
	return r.Get(ctx, q, id)
}

func (r fakeCompletedRepo) CountByIssued(ctx context.Context, q db.DBTX, issuedID int64) (int64, error) {
	list, err := r.ListByIssued(ctx, q, issuedID)
	return int64(len(list)), err
}

func (r fakeCompletedRepo) Create(ctx context.Context, q db.DBTX, in models.CompletedInput) (*models.CompletedCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	if in.IssuedID != nil {
		if _, ok := r.issued[*in.IssuedID]; !ok {
			return nil, repository.ErrNotFound
		}
	}
	c := models.CompletedCoupon{
		ID: r.id(), IssuedID: in.IssuedID, Date: in.Date, Performer: in.Performer,
		Content: in.Content, Amount: in.Amount, Photo: in.Photo, CreatedAt: r.tick(),
	}
	r.completed[c.ID] = c
	return &c, nil
}

func (r fakeCompletedRepo) Update(ctx context.Context, q db.DBTX, id int64, in models.CompletedInput) (*models.CompletedCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	c, ok := r.completed[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.IssuedID != nil {
		if _, ok := r.issued[*in.IssuedID]; !ok {
			return nil, repository.ErrNotFound
		}
	}
	c.IssuedID, c.Date, c.Performer, c.Content, c.Amount, c.Photo =
		in.IssuedID, in.Date, in.Performer, in.Content, in.Amount, in.Photo
	r.completed[id] = c
	return &c, nil
}

func (r fakeCompletedRepo) Delete(ctx context.Context, q db.DBTX, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.completed[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.completed, id)
	return nil
}

func (r fakeCompletedRepo) Count(ctx context.Context, q db.DBTX) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.completed)), r.failWith
}

type fakeGuestbookRepo struct{ *memStore }

func (r fakeGuestbookRepo) List(ctx context.Context, q db.DBTX) ([]models.GuestbookEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	return slices.Clone(r.guestbook), nil
}

func (r fakeGuestbookRepo) Insert(ctx context.Context, q db.DBTX, message string) (*models.GuestbookEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	e := models.GuestbookEntry{ID: r.id(), Message: message, CreatedAt: r.tick()}
	r.guestbook = append(r.guestbook, e)
	return &e, nil
}

func (r fakeGuestbookRepo) DeleteAll(ctx context.Context, q db.DBTX) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.guestbook))
	r.guestbook = nil
	return n, r.failWith
}

func (r fakeGuestbookRepo) DeleteByPrefix(ctx context.Context, q db.DBTX, prefix string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.guestbook[:0]
	var n int64
	for _, e := range r.guestbook {
		if len(e.Message) >= len(prefix) && e.Message[:len(prefix)] == prefix {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.guestbook = kept
	return n, r.failWith
}
