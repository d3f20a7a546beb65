package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

// UserRepository is the Identity Store.
//
// Lookups return domain.ErrUserNotFound for absent records. Mutations of a
// vanished user return domain.ErrUpdateNotFound. Create returns a
// *domain.DuplicateIdentityError naming the colliding field.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByEmailOrPhone(ctx context.Context, identifier string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	AppendEnrollment(ctx context.Context, userID, courseID string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID, password string) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id::text, name, email, phone, password, role, enrolled_course_ids, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, phone, password, role, enrolled_course_ids)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id::text, created_at, updated_at`

	enrolled := user.EnrolledCourseIDs
	if enrolled == nil {
		enrolled = []string{}
	}
	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Phone,
		user.Password,
		user.Role,
		enrolled,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if field, ok := uniqueViolationField(err); ok {
		return domain.NewDuplicateIdentity(field)
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id::text=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone=$1`, phone)
}

func (r *userRepository) FindByEmailOrPhone(ctx context.Context, identifier string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1 OR phone=$1 LIMIT 1`, identifier)
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) AppendEnrollment(ctx context.Context, userID, courseID string) (*domain.User, error) {
	const query = `
        UPDATE users
        SET enrolled_course_ids = CASE
                WHEN $2 = ANY(enrolled_course_ids) THEN enrolled_course_ids
                ELSE array_append(enrolled_course_ids, $2)
            END,
            updated_at = NOW()
        WHERE id::text=$1
        RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, userID, courseID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUpdateNotFound
	}
	return user, err
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, password string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password=$1, updated_at=NOW() WHERE id::text=$2`, password, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUpdateNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id::text=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUpdateNotFound
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return user, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Password,
		&user.Role,
		&user.EnrolledCourseIDs,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
