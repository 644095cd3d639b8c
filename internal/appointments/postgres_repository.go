package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("clinic-booking/appointments")

// pgxDB is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it for tests.
type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db  pgxDB
	now func() time.Time
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool, now: time.Now}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

const appointmentColumns = `id, patient_name, patient_email, patient_phone,
	appointment_date, appointment_time, consultation_type, status,
	COALESCE(notes, ''), created_at, updated_at`

// Create inserts a new pending appointment row.
func (r *PostgresRepository) Create(ctx context.Context, req *BookingRequest) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.Create")
	defer span.End()

	record, err := req.Record(r.now())
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("appointment.date", record.AppointmentDate),
		attribute.String("appointment.time", record.AppointmentTime),
	)

	id := uuid.New()
	query := `
		INSERT INTO appointments (id, patient_name, patient_email, patient_phone,
			appointment_date, appointment_time, consultation_type, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		record.PatientName,
		record.PatientEmail,
		record.PatientPhone,
		record.AppointmentDate,
		record.AppointmentTime,
		record.ConsultationType,
		string(record.Status),
		record.Notes,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, ClassifyStoreError(err)
	}

	return &Appointment{
		ID:               id.String(),
		PatientName:      record.PatientName,
		PatientEmail:     record.PatientEmail,
		PatientPhone:     record.PatientPhone,
		AppointmentDate:  record.AppointmentDate,
		AppointmentTime:  record.AppointmentTime,
		ConsultationType: record.ConsultationType,
		Status:           record.Status,
		Notes:            record.Notes,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

// List returns every appointment ordered by date then time.
func (r *PostgresRepository) List(ctx context.Context) ([]Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.List")
	defer span.End()

	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		ORDER BY appointment_date ASC, appointment_time ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, ClassifyStoreError(err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// ListRecent returns the limit most recently created appointments.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.ListRecent")
	defer span.End()
	span.SetAttributes(attribute.Int("limit", limit))

	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, ClassifyStoreError(err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// UpdateStatus performs a targeted single-field update of status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	ctx, span := tracer.Start(ctx, "appointments.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.status", string(status)))

	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}

	query := `
		UPDATE appointments
		SET status = $2, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, string(status))
	if err != nil {
		return ClassifyStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	var out []Appointment
	for rows.Next() {
		var a Appointment
		var status string
		if err := rows.Scan(
			&a.ID,
			&a.PatientName,
			&a.PatientEmail,
			&a.PatientPhone,
			&a.AppointmentDate,
			&a.AppointmentTime,
			&a.ConsultationType,
			&status,
			&a.Notes,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, ClassifyStoreError(err)
		}
		a.Status = Status(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, ClassifyStoreError(err)
	}
	return out, nil
}
