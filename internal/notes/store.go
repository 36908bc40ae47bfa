package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a note does not exist.
	ErrNotFound = errors.New("note not found")
	// ErrUnknownCategory is returned when a note references a missing category.
	ErrUnknownCategory = errors.New("unknown category")
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedOn time.Time `json:"created_on"`
}

type Note struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Image      string    `json:"image,omitempty"`
	CategoryID int64     `json:"category_id"`
	User       string    `json:"user"`
	CreatedOn  time.Time `json:"created_on"`
	UpdatedOn  time.Time `json:"updated_on"`
}

// Store persists notes and their categories.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) CreateCategory(ctx context.Context, name string) (Category, error) {
	c := Category{Name: name, CreatedOn: s.now().UTC().Truncate(time.Second)}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories(name, created_on) VALUES(?, ?)`,
		c.Name, c.CreatedOn.Format(time.RFC3339))
	if err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_on FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var c Category
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &created); err != nil {
			return nil, err
		}
		c.CreatedOn = parseTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateNote stores n and returns it with its id and timestamps set.
func (s *Store) CreateNote(ctx context.Context, n Note) (Note, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id = ?`, n.CategoryID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrUnknownCategory
	}
	if err != nil {
		return Note{}, err
	}

	now := s.now().UTC().Truncate(time.Second)
	n.CreatedOn, n.UpdatedOn = now, now

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes(title, content, image, category_id, owner, created_on, updated_on) VALUES(?,?,?,?,?,?,?)`,
		n.Title, n.Content, nullable(n.Image), n.CategoryID, n.User,
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return Note{}, fmt.Errorf("insert note: %w", err)
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return Note{}, err
	}
	return n, nil
}

// ListNotes returns notes newest first, optionally filtered by category
// (categoryID <= 0 means all).
func (s *Store) ListNotes(ctx context.Context, categoryID int64) ([]Note, error) {
	query := `SELECT id, title, content, image, category_id, owner, created_on, updated_on FROM notes`
	var args []interface{}
	if categoryID > 0 {
		query += ` WHERE category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY created_on DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) GetNote(ctx context.Context, id int64) (Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, image, category_id, owner, created_on, updated_on FROM notes WHERE id = ?`, id)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return n, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row scanner) (Note, error) {
	var (
		n                Note
		image            sql.NullString
		created, updated string
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &image, &n.CategoryID, &n.User, &created, &updated); err != nil {
		return Note{}, err
	}
	n.Image = image.String
	n.CreatedOn = parseTime(created)
	n.UpdatedOn = parseTime(updated)
	return n, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
