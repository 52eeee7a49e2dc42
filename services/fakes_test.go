package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"academy-service/events"
	"academy-service/models"
	"academy-service/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- Users ---

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.add(u)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, id uuid.UUID, hash string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.ResetTokenHash = &hash
	u.ResetTokenExpiry = &expiry
	return nil
}

func (r *fakeUserRepo) FindByResetToken(_ context.Context, hash string, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == hash && u.ResetTokenExpiry.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ResetPassword(_ context.Context, id uuid.UUID, hash, passwordHash string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.ResetTokenHash == nil || *u.ResetTokenHash != hash || !u.ResetTokenExpiry.After(now) {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
	return nil
}

func (r *fakeUserRepo) ListStudentsWithPaidOrders(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Role == models.RoleStudent {
			out = append(out, *u)
		}
	}
	return out, nil
}

// --- Courses ---

type fakeCourseRepo struct {
	courses map[string]*models.Course
	calls   int
}

func newFakeCourseRepo(courses ...*models.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: map[string]*models.Course{}}
	for _, c := range courses {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.courses[c.Slug] = c
	}
	return r
}

func (r *fakeCourseRepo) FindBySlug(_ context.Context, slug string) (*models.Course, error) {
	c, ok := r.courses[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) ListActive(_ context.Context) ([]models.Course, error) {
	r.calls++
	var out []models.Course
	for _, c := range r.courses {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *fakeCourseRepo) byID(id uuid.UUID) models.Course {
	for _, c := range r.courses {
		if c.ID == id {
			return *c
		}
	}
	return models.Course{}
}

// --- Orders and payments ---

// fakeOrderStore backs both the order and payment repositories so that
// payments written by SavePendingReview are visible on the orders.
type fakeOrderStore struct {
	mu        sync.Mutex
	courses   *fakeCourseRepo
	orders    map[uuid.UUID]*models.Order
	payments  map[uuid.UUID][]*models.Payment
	createErr error
	saveErr   error
	countErr  error
}

func newFakeOrderStore(courses *fakeCourseRepo) *fakeOrderStore {
	return &fakeOrderStore{
		courses:  courses,
		orders:   map[uuid.UUID]*models.Order{},
		payments: map[uuid.UUID][]*models.Payment{},
	}
}

func (r *fakeOrderStore) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderStore) withDetails(o *models.Order) *models.Order {
	cp := *o
	cp.Course = r.courses.byID(o.CourseID)
	cp.Payments = nil
	for _, p := range r.payments[o.ID] {
		cp.Payments = append(cp.Payments, *p)
	}
	return &cp
}

func (r *fakeOrderStore) FindByIDWithDetails(_ context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withDetails(o), nil
}

func (r *fakeOrderStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o.Status = status
	return r.withDetails(o), nil
}

func (r *fakeOrderStore) list(filter func(*models.Order) bool) []models.Order {
	var out []models.Order
	for _, o := range r.orders {
		if filter(o) {
			out = append(out, *r.withDetails(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeOrderStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(o *models.Order) bool { return o.UserID != nil && *o.UserID == userID }), nil
}

func (r *fakeOrderStore) ListAll(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(*models.Order) bool { return true }), nil
}

func (r *fakeOrderStore) ListPaid(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(o *models.Order) bool { return o.Status == models.OrderStatusPaid }), nil
}

func (r *fakeOrderStore) CountByUser(_ context.Context, userID uuid.UUID, status *models.OrderStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, o := range r.orders {
		if o.UserID == nil || *o.UserID != userID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		n++
	}
	return n, nil
}

func (r *fakeOrderStore) SavePendingReview(_ context.Context, orderID uuid.UUID, p *models.Payment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return false, r.saveErr
	}
	if _, ok := r.orders[orderID]; !ok {
		return false, gorm.ErrRecordNotFound
	}
	for _, existing := range r.payments[orderID] {
		if existing.Status == models.PaymentStatusPendingReview {
			existing.Method = p.Method
			existing.Amount = p.Amount
			existing.Currency = p.Currency
			existing.ReceiptURL = p.ReceiptURL
			existing.ReceiptKey = p.ReceiptKey
			*p = *existing
			return false, nil
		}
	}
	p.ID = uuid.New()
	p.OrderID = orderID
	p.Status = models.PaymentStatusPendingReview
	cp := *p
	r.payments[orderID] = append(r.payments[orderID], &cp)
	return true, nil
}

// --- Storage ---

type fakeStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	deleteErr error
	deleted   []string
	sizes     []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Put(_ context.Context, key string, r io.Reader, size int64, _ string) (*storage.StoredObject, error) {
	s.mu.Lock()
	s.sizes = append(s.sizes, size)
	s.mu.Unlock()
	if s.putErr != nil {
		return nil, s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return &storage.StoredObject{Key: key, URL: "https://cdn.test/" + key}, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

type seqKeys struct{ n int }

func (k *seqKeys) Key(orderID, filename string) string {
	k.n++
	return fmt.Sprintf("%s/receipt-%d-%s", orderID, k.n, filename)
}

// --- Events ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// --- Mailer ---

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

var errBoom = errors.New("boom")
