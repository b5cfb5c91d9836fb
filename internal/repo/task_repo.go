package repo

import (
	"context"

	dom "github.com/pavel-2009/ai-task-assistant/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64) ([]dom.Task, error)
	Search(ctx context.Context, userID int64, q string) ([]dom.Task, error)
	Update(ctx context.Context, id int64, patch dom.Task) (dom.Task, error)
	Delete(ctx context.Context, id int64) error
	SetAvatarPath(ctx context.Context, id int64, path string) (dom.Task, error)
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, user_id, title, description, avatar_path, created_at, updated_at`

func scanTask(row interface{ Scan(dest ...any) error }) (dom.Task, error) {
	var t dom.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.AvatarPath,
		&t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, t.UserID, t.Title, t.Description))
}

func (r *PGTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, query, id))
}

func (r *PGTaskRepo) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Search(ctx context.Context, userID int64, q string) ([]dom.Task, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE user_id = $1 AND (title ILIKE $2 OR description ILIKE $2)
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, id int64, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET title = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, patch.Title, patch.Description))
}

func (r *PGTaskRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *PGTaskRepo) SetAvatarPath(ctx context.Context, id int64, path string) (dom.Task, error) {
	query := `
		UPDATE tasks SET avatar_path = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, path))
}
