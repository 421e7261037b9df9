package localstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("no saved session")

// Login is the persisted result of a successful sign-in.
type Login struct {
	Token    string
	UserID   string
	UserType string
	PGCode   string
	Email    string
	APIURL   string
	SavedAt  time.Time
}

// Store reads and writes the saved login. It holds at most one row.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database under dir.
func Open(ctx context.Context, dir string) (*Store, error) {
	path, err := DBPath(dir)
	if err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(2000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS Sessions (
            Slot INTEGER PRIMARY KEY CHECK (Slot = 1),
            Token TEXT NOT NULL,
            UserId TEXT NOT NULL,
            UserType TEXT NOT NULL,
            PGCode TEXT NOT NULL,
            Email TEXT NOT NULL,
            ApiUrl TEXT NOT NULL,
            SavedAt TIMESTAMP NOT NULL
        );`)
	return err
}

// Save replaces the saved login with l. SavedAt is set to now when zero.
func (s *Store) Save(ctx context.Context, l Login) error {
	if l.Token == "" {
		return errors.New("localstate: empty token")
	}
	if l.SavedAt.IsZero() {
		l.SavedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO Sessions (Slot, Token, UserId, UserType, PGCode, Email, ApiUrl, SavedAt)
        VALUES (1,?,?,?,?,?,?,?)
        ON CONFLICT(Slot) DO UPDATE SET Token=excluded.Token, UserId=excluded.UserId, UserType=excluded.UserType,
            PGCode=excluded.PGCode, Email=excluded.Email, ApiUrl=excluded.ApiUrl, SavedAt=excluded.SavedAt`,
		l.Token, l.UserID, l.UserType, l.PGCode, l.Email, l.APIURL, l.SavedAt)
	return err
}

// Load returns the saved login or ErrNoSession.
func (s *Store) Load(ctx context.Context) (Login, error) {
	var l Login
	row := s.db.QueryRowContext(ctx, `SELECT Token, UserId, UserType, PGCode, Email, ApiUrl, SavedAt FROM Sessions WHERE Slot = 1`)
	if err := row.Scan(&l.Token, &l.UserID, &l.UserType, &l.PGCode, &l.Email, &l.APIURL, &l.SavedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Login{}, ErrNoSession
		}
		return Login{}, err
	}
	return l, nil
}

// Clear forgets the saved login. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM Sessions`)
	return err
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }
