package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

type Repository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUserEmail(ctx context.Context, id int64, email string) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetGPA(ctx context.Context, userID int64) (*model.GPARecord, error)
	UpsertGPA(ctx context.Context, userID int64, gpa float64) (*model.GPARecord, error)
	DeleteGPA(ctx context.Context, userID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	query := `INSERT INTO users (email, password_hash) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, query, email, passwordHash)
	if err != nil {
		if isDuplicate(err) {
			return nil, errors.ErrEmailAlreadyExists
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, id)
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *repository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateUserEmail(ctx context.Context, id int64, email string) (*model.User, error) {
	query := `UPDATE users SET email = ?, updated_at = NOW() WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, email, id); err != nil {
		if isDuplicate(err) {
			return nil, errors.ErrEmailAlreadyExists
		}
		return nil, err
	}

	// MySQL reports 0 affected rows for an unchanged value, so existence is
	// decided by the re-read.
	return r.GetUserByID(ctx, id)
}

func (r *repository) DeleteUser(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM gpa_records WHERE user_id = ?`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errors.ErrUserNotFound
	}

	return tx.Commit()
}

func (r *repository) GetGPA(ctx context.Context, userID int64) (*model.GPARecord, error) {
	query := `SELECT user_id, gpa, updated_at FROM gpa_records WHERE user_id = ?`

	var record model.GPARecord
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&record.UserID, &record.GPA, &record.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrGPANotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpsertGPA(ctx context.Context, userID int64, gpa float64) (*model.GPARecord, error) {
	query := `INSERT INTO gpa_records (user_id, gpa) VALUES (?, ?)
			  ON DUPLICATE KEY UPDATE gpa = VALUES(gpa), updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, userID, gpa); err != nil {
		return nil, fmt.Errorf("failed to save gpa: %w", err)
	}
	return r.GetGPA(ctx, userID)
}

func (r *repository) DeleteGPA(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gpa_records WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrGPANotFound
	}
	return nil
}

func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
