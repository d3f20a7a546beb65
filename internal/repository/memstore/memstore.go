// Package memstore keeps every repository in process memory. It backs the
// development profile and the service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/repository"
)

// New returns a Store backed by fresh in-memory repositories.
func New() repository.Store {
	return repository.Store{
		Users:        NewUserRepository(),
		Courses:      NewCourseRepository(),
		Materials:    NewMaterialRepository(),
		Transactions: NewTransactionRepository(),
	}
}

// UserRepository is an in-memory Identity Store.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserRepository builds an empty identity store.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.NewDuplicateIdentity("email")
		}
		if existing.Phone == user.Phone {
			return domain.NewDuplicateIdentity("phone")
		}
	}

	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.EnrolledCourseIDs == nil {
		user.EnrolledCourseIDs = []string{}
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Phone == phone })
}

func (r *UserRepository) FindByEmailOrPhone(_ context.Context, identifier string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == identifier || u.Phone == identifier })
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *UserRepository) AppendEnrollment(_ context.Context, userID, courseID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUpdateNotFound
	}
	if u.AddEnrollment(courseID) {
		u.UpdatedAt = time.Now().UTC()
	}
	return cloneUser(u), nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, userID, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUpdateNotFound
	}
	u.Password = password
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUpdateNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.EnrolledCourseIDs = append([]string{}, u.EnrolledCourseIDs...)
	return &c
}

// CourseRepository is an in-memory course catalog.
type CourseRepository struct {
	mu      sync.RWMutex
	courses map[string]domain.Course
}

// NewCourseRepository builds an empty catalog.
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{courses: make(map[string]domain.Course)}
}

func (r *CourseRepository) Create(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	course.CreatedAt = now
	course.UpdatedAt = now
	r.courses[course.ID] = *course
	return nil
}

func (r *CourseRepository) Update(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.courses[course.ID]
	if !ok {
		return domain.ErrCourseNotFound
	}
	course.CreatedAt = existing.CreatedAt
	course.UpdatedAt = time.Now().UTC()
	r.courses[course.ID] = *course
	return nil
}

func (r *CourseRepository) GetByID(_ context.Context, id string) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return &c, nil
}

func (r *CourseRepository) List(_ context.Context) ([]domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Date.Before(courses[j].Date) })
	return courses, nil
}

// MaterialRepository is an in-memory material list.
type MaterialRepository struct {
	mu        sync.RWMutex
	materials []domain.Material
}

// NewMaterialRepository builds an empty material list.
func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{}
}

func (r *MaterialRepository) Create(_ context.Context, material *domain.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	if material.UploadedAt.IsZero() {
		material.UploadedAt = time.Now().UTC()
	}
	r.materials = append(r.materials, *material)
	return nil
}

func (r *MaterialRepository) List(_ context.Context) ([]domain.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Material, len(r.materials))
	for i := range r.materials {
		out[len(out)-1-i] = r.materials[i]
	}
	return out, nil
}

// TransactionRepository is an append-only in-memory ledger of payments.
type TransactionRepository struct {
	mu   sync.RWMutex
	txns []domain.Transaction
}

// NewTransactionRepository builds an empty payment ledger.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

func (r *TransactionRepository) Create(_ context.Context, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	r.txns = append(r.txns, *txn)
	return nil
}

func (r *TransactionRepository) ListByUser(_ context.Context, userID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Transaction
	for i := len(r.txns) - 1; i >= 0; i-- {
		if r.txns[i].UserID == userID {
			out = append(out, r.txns[i])
		}
	}
	return out, nil
}

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.CourseRepository      = (*CourseRepository)(nil)
	_ repository.MaterialRepository    = (*MaterialRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
)
