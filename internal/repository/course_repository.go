package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

// CourseRepository persists course sessions.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository returns a Postgres-backed implementation.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

const courseColumns = `id::text, title, description, date, meet_link, instructor_name, price, duration, status, created_at, updated_at`

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (title, description, date, meet_link, instructor_name, price, duration, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id::text, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.Date,
		course.MeetLink,
		course.InstructorName,
		course.Price,
		course.Duration,
		course.Status,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	const query = `
        UPDATE courses
        SET title=$1, description=$2, date=$3, meet_link=$4, instructor_name=$5, price=$6, duration=$7, status=$8, updated_at=NOW()
        WHERE id::text=$9
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.Date,
		course.MeetLink,
		course.InstructorName,
		course.Price,
		course.Duration,
		course.Status,
		course.ID,
	).Scan(&course.CreatedAt, &course.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCourseNotFound
	}
	return err
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	course, err := scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id::text=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCourseNotFound
	}
	return course, err
}

func (r *courseRepository) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, rows.Err()
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var c domain.Course
	if err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Date,
		&c.MeetLink,
		&c.InstructorName,
		&c.Price,
		&c.Duration,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
