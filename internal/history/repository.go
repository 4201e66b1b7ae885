package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db      *sql.DB
	session string
}

// NewRepository opens the sqlite file at path and tags every row written
// through it with a fresh session id.
func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}

	repo := &Repository{db: db, session: uuid.New().String()}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return repo, nil
}

func (r *Repository) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS dismissals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		timer_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		length INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		dismissed_at TEXT NOT NULL,
		seconds_left INTEGER NOT NULL
	)
	`
	_, err := r.db.Exec(query)
	return err
}

func (r *Repository) Session() string {
	return r.session
}

// Record stores d under the repository's session and sets d.ID.
func (r *Repository) Record(d *Dismissal) error {
	d.Session = r.session
	result, err := r.db.Exec(
		"INSERT INTO dismissals (session, timer_id, name, length, started_at, dismissed_at, seconds_left) VALUES (?, ?, ?, ?, ?, ?, ?)",
		d.Session,
		d.TimerID,
		d.Name,
		int64(d.Length),
		d.StartedAt.Format(time.RFC3339Nano),
		d.DismissedAt.Format(time.RFC3339Nano),
		d.SecondsLeft,
	)
	if err != nil {
		return fmt.Errorf("insert dismissal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

// Recent returns up to limit dismissals, newest first.
func (r *Repository) Recent(limit int) ([]Dismissal, error) {
	rows, err := r.db.Query(
		"SELECT id, session, timer_id, name, length, started_at, dismissed_at, seconds_left FROM dismissals ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query dismissals: %w", err)
	}
	defer rows.Close()

	var out []Dismissal
	for rows.Next() {
		var d Dismissal
		var length int64
		var startedAt, dismissedAt string
		if err := rows.Scan(&d.ID, &d.Session, &d.TimerID, &d.Name, &length, &startedAt, &dismissedAt, &d.SecondsLeft); err != nil {
			return nil, fmt.Errorf("scan dismissal: %w", err)
		}
		d.Length = time.Duration(length)
		if d.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("dismissal %d started_at: %w", d.ID, err)
		}
		if d.DismissedAt, err = time.Parse(time.RFC3339Nano, dismissedAt); err != nil {
			return nil, fmt.Errorf("dismissal %d dismissed_at: %w", d.ID, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
