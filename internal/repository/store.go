package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Store bundles the repositories used by the services.
type Store struct {
	Users        UserRepository
	Courses      CourseRepository
	Materials    MaterialRepository
	Transactions TransactionRepository
}

// NewPostgresStore wires every repository onto one pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return Store{
		Users:        NewUserRepository(pool),
		Courses:      NewCourseRepository(pool),
		Materials:    NewMaterialRepository(pool),
		Transactions: NewTransactionRepository(pool),
	}
}
