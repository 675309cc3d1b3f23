package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/amanihq/amani/core/class"
)

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) *classRepository {
	return &classRepository{db: db}
}

type classRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Location  string    `db:"location"`
	Schedule  string    `db:"schedule"`
	StartDate time.Time `db:"start_date"`
	EndDate   null.Time `db:"end_date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type enrollmentRow struct {
	ID              string    `db:"id"`
	ClientID        string    `db:"client_id"`
	ClassID         string    `db:"class_id"`
	Status          string    `db:"status"`
	EnrollmentDate  time.Time `db:"enrollment_date"`
	TerminationDate null.Time `db:"termination_date"`
	CompletionDate  null.Time `db:"completion_date"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	ClientName      string    `db:"client_name"`
}

type attendanceRow struct {
	ID           string    `db:"id"`
	EnrollmentID string    `db:"enrollment_id"`
	Date         time.Time `db:"date"`
	Present      bool      `db:"present"`
	Note         string    `db:"note"`
	CreatedAt    time.Time `db:"created_at"`
	ClientName   string    `db:"client_name"`
}

func (repo classRepository) unrowClass(row classRow) class.Class {
	return class.Class{
		ID:        row.ID,
		Name:      row.Name,
		Location:  row.Location,
		Schedule:  row.Schedule,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (repo classRepository) unrowEnrollment(row enrollmentRow) class.Enrollment {
	return class.Enrollment{
		ID:              row.ID,
		ClientID:        row.ClientID,
		ClassID:         row.ClassID,
		Status:          row.Status,
		EnrollmentDate:  row.EnrollmentDate,
		TerminationDate: row.TerminationDate,
		CompletionDate:  row.CompletionDate,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		ClientName:      row.ClientName,
	}
}

const enrollmentSelect = `
SELECT e.id, e.client_id, e.class_id, e.status, e.enrollment_date, e.termination_date,
       e.completion_date, e.created_at, e.updated_at,
       TRIM(c.first_name || ' ' || c.last_name) AS client_name
FROM enrollment e
JOIN client c ON c.id = e.client_id`

func (repo classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	cls.ID = uuid.New().String()
	q := `
		INSERT INTO class (id, name, location, schedule, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, q,
		cls.ID, cls.Name, cls.Location, cls.Schedule,
		cls.StartDate.UTC(), nullTime(cls.EndDate), cls.CreatedAt.UTC(), cls.UpdatedAt.UTC())
	if err != nil {
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo classRepository) QueryAllClasses(ctx context.Context) ([]class.Class, error) {
	var rows []classRow
	q := `SELECT * FROM class ORDER BY start_date DESC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]class.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, repo.unrowClass(row))
	}
	return classes, nil
}

func (repo classRepository) GetClassByID(ctx context.Context, id string) (class.Class, error) {
	if _, err := uuid.Parse(id); err != nil {
		return class.Class{}, class.ErrNotFound
	}

	var row classRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM class WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return class.Class{}, class.ErrNotFound
		}
		return class.Class{}, errors.Wrap(err, "finding class by ID")
	}
	return repo.unrowClass(row), nil
}

func (repo classRepository) CreateEnrollment(ctx context.Context, enr class.Enrollment) (class.Enrollment, error) {
	enr.ID = uuid.New().String()
	q := `
		INSERT INTO enrollment (id, client_id, class_id, status, enrollment_date,
		                        termination_date, completion_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, q,
		enr.ID, enr.ClientID, enr.ClassID, enr.Status, enr.EnrollmentDate.UTC(),
		nullTime(enr.TerminationDate), nullTime(enr.CompletionDate),
		enr.CreatedAt.UTC(), enr.UpdatedAt.UTC())
	if err != nil {
		return class.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo classRepository) GetEnrollmentByID(ctx context.Context, id string) (class.Enrollment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return class.Enrollment{}, class.ErrEnrollmentNotFound
	}

	var row enrollmentRow
	q := enrollmentSelect + ` WHERE e.id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return class.Enrollment{}, class.ErrEnrollmentNotFound
		}
		return class.Enrollment{}, errors.Wrap(err, "finding enrollment by ID")
	}
	return repo.unrowEnrollment(row), nil
}

func (repo classRepository) GetActiveEnrollment(ctx context.Context, clientID, classID string) (class.Enrollment, error) {
	var row enrollmentRow
	q := enrollmentSelect + ` WHERE e.client_id = $1 AND e.class_id = $2 AND e.status = $3`
	if err := repo.db.GetContext(ctx, &row, q, clientID, classID, class.EnrollmentActive); err != nil {
		if err == sql.ErrNoRows {
			return class.Enrollment{}, class.ErrEnrollmentNotFound
		}
		return class.Enrollment{}, errors.Wrap(err, "finding active enrollment")
	}
	return repo.unrowEnrollment(row), nil
}

func (repo classRepository) QueryEnrollmentsByClassID(ctx context.Context, classID string) ([]class.Enrollment, error) {
	var rows []enrollmentRow
	q := enrollmentSelect + ` WHERE e.class_id = $1 ORDER BY e.enrollment_date DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, classID); err != nil {
		return nil, errors.Wrap(err, "querying class enrollments")
	}
	enrollments := make([]class.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, repo.unrowEnrollment(row))
	}
	return enrollments, nil
}

func (repo classRepository) UpdateEnrollment(ctx context.Context, enr class.Enrollment) (class.Enrollment, error) {
	q := `
		UPDATE enrollment
		SET status = $1, termination_date = $2, completion_date = $3, updated_at = $4
		WHERE id = $5`
	res, err := repo.db.ExecContext(ctx, q,
		enr.Status, nullTime(enr.TerminationDate), nullTime(enr.CompletionDate),
		enr.UpdatedAt.UTC(), enr.ID)
	if err != nil {
		return class.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return class.Enrollment{}, class.ErrEnrollmentNotFound
	}
	return enr, nil
}

func (repo classRepository) CreateAttendance(ctx context.Context, att class.Attendance) (class.Attendance, error) {
	att.ID = uuid.New().String()
	q := `
		INSERT INTO attendance (id, enrollment_id, date, present, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q,
		att.ID, att.EnrollmentID, att.Date.UTC(), att.Present, att.Note, att.CreatedAt.UTC())
	if err != nil {
		return class.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return att, nil
}

func (repo classRepository) QueryAttendanceByEnrollmentID(ctx context.Context, enrollmentID string) ([]class.Attendance, error) {
	var rows []attendanceRow
	q := `
		SELECT a.id, a.enrollment_id, a.date, a.present, a.note, a.created_at,
		       TRIM(c.first_name || ' ' || c.last_name) AS client_name
		FROM attendance a
		JOIN enrollment e ON e.id = a.enrollment_id
		JOIN client c ON c.id = e.client_id
		WHERE a.enrollment_id = $1
		ORDER BY a.date DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, enrollmentID); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	marks := make([]class.Attendance, 0, len(rows))
	for _, row := range rows {
		marks = append(marks, class.Attendance{
			ID:           row.ID,
			EnrollmentID: row.EnrollmentID,
			Date:         row.Date,
			Present:      row.Present,
			Note:         row.Note,
			CreatedAt:    row.CreatedAt,
			ClientName:   row.ClientName,
		})
	}
	return marks, nil
}
