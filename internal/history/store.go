// Package history persists every equation computor solves.
//
// It uses SQLite with an FTS5 index so past equations can be found by their
// text, reduced form, classification or summary. Re-solving the same
// equation within the dedupe window bumps a counter instead of adding a row.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a solve or session does not exist.
var ErrNotFound = errors.New("history: not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Session groups the solves of one CLI run or MCP connection.
type Session struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	StartedAt  string  `json:"started_at"`
	EndedAt    *string `json:"ended_at,omitempty"`
	SolveCount int     `json:"solve_count"`
}

// Solve is one stored equation and its outcome.
type Solve struct {
	ID           int64   `json:"id"`
	SessionID    *string `json:"session_id,omitempty"`
	Equation     string  `json:"equation"`
	Normalized   string  `json:"normalized"`
	ReducedForm  string  `json:"reduced_form,omitempty"`
	Degree       *int    `json:"degree,omitempty"`
	SolutionType string  `json:"solution_type"`
	Summary      string  `json:"summary"`
	Error        *string `json:"error,omitempty"`
	SolveCount   int     `json:"solve_count"`
	LastSeenAt   string  `json:"last_seen_at"`
	CreatedAt    string  `json:"created_at"`
}

// SearchResult embeds a Solve with its FTS5 rank (lower is better).
type SearchResult struct {
	Solve
	Rank float64 `json:"rank"`
}

// SearchOptions filters Search and Recent.
type SearchOptions struct {
	Type      string `json:"type,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// RecordParams is the input of Record. A non-empty Error marks a rejected
// equation; its Degree is not stored.
type RecordParams struct {
	SessionID    string `json:"session_id,omitempty"`
	Equation     string `json:"equation"`
	Normalized   string `json:"normalized,omitempty"`
	ReducedForm  string `json:"reduced_form,omitempty"`
	Degree       int    `json:"degree"`
	SolutionType string `json:"solution_type"`
	Summary      string `json:"summary"`
	Error        string `json:"error,omitempty"`
}

// Stats holds aggregate history statistics.
type Stats struct {
	TotalSessions int            `json:"total_sessions"`
	TotalSolves   int            `json:"total_solves"`
	TotalAttempts int            `json:"total_attempts"`
	ByType        map[string]int `json:"by_type"`
	ByDegree      map[string]int `json:"by_degree"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds history store configuration.
type Config struct {
	DataDir          string
	MaxSearchResults int
	DedupeWindow     time.Duration
}

// DefaultConfig returns the default configuration for the history store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:          filepath.Join(home, ".computor"),
		MaxSearchResults: 20,
		DedupeWindow:     15 * time.Minute,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the solve history backed by SQLite + FTS5.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates the data directory if needed, opens history.db with WAL mode
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = DefaultConfig().MaxSearchResults
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	// Connection-scoped pragmas go in the DSN so every pooled connection gets them.
	dsn := filepath.Join(cfg.DataDir, "history.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := openDB("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			started_at TEXT NOT NULL DEFAULT (datetime('now')),
			ended_at   TEXT
		);

		CREATE TABLE IF NOT EXISTS solves (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id    TEXT,
			equation      TEXT    NOT NULL,
			normalized    TEXT    NOT NULL,
			reduced_form  TEXT    NOT NULL DEFAULT '',
			degree        INTEGER,
			solution_type TEXT    NOT NULL,
			summary       TEXT    NOT NULL DEFAULT '',
			error         TEXT,
			solve_count   INTEGER NOT NULL DEFAULT 1,
			last_seen_at  TEXT    NOT NULL DEFAULT (datetime('now')),
			created_at    TEXT    NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE SET NULL
		);

		CREATE INDEX IF NOT EXISTS idx_solves_session    ON solves(session_id);
		CREATE INDEX IF NOT EXISTS idx_solves_type       ON solves(solution_type);
		CREATE INDEX IF NOT EXISTS idx_solves_created    ON solves(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_solves_normalized ON solves(normalized, created_at DESC);

		CREATE VIRTUAL TABLE IF NOT EXISTS solves_fts USING fts5(
			equation,
			reduced_form,
			solution_type,
			summary,
			content='solves',
			content_rowid='id'
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS triggers (idempotent)
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='trigger' AND name='solves_fts_insert'",
	).Scan(&name)
	if err == sql.ErrNoRows {
		triggers := `
			CREATE TRIGGER solves_fts_insert AFTER INSERT ON solves BEGIN
				INSERT INTO solves_fts(rowid, equation, reduced_form, solution_type, summary)
				VALUES (new.id, new.equation, new.reduced_form, new.solution_type, new.summary);
			END;

			CREATE TRIGGER solves_fts_delete AFTER DELETE ON solves BEGIN
				INSERT INTO solves_fts(solves_fts, rowid, equation, reduced_form, solution_type, summary)
				VALUES ('delete', old.id, old.equation, old.reduced_form, old.solution_type, old.summary);
			END;

			CREATE TRIGGER solves_fts_update AFTER UPDATE ON solves BEGIN
				INSERT INTO solves_fts(solves_fts, rowid, equation, reduced_form, solution_type, summary)
				VALUES ('delete', old.id, old.equation, old.reduced_form, old.solution_type, old.summary);
				INSERT INTO solves_fts(rowid, equation, reduced_form, solution_type, summary)
				VALUES (new.id, new.equation, new.reduced_form, new.solution_type, new.summary);
			END;
		`
		if _, err := s.db.Exec(triggers); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return nil
}

// ─── Sessions ────────────────────────────────────────────────────────────────

// CreateSession registers a session. Creating an existing ID is a no-op.
func (s *Store) CreateSession(id, source string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO sessions (id, source) VALUES (?, ?)`,
		id, source,
	)
	if err != nil {
		return fmt.Errorf("history: create session: %w", err)
	}
	return nil
}

// EndSession marks a session as finished.
func (s *Store) EndSession(id string) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET ended_at = datetime('now') WHERE id = ? AND ended_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("history: end session: %w", err)
	}
	return nil
}

// GetSession retrieves a session with its solve count.
func (s *Store) GetSession(id string) (*Session, error) {
	var sess Session
	err := s.db.QueryRow(
		`SELECT s.id, s.source, s.started_at, s.ended_at,
		        (SELECT COUNT(*) FROM solves WHERE session_id = s.id)
		 FROM sessions s WHERE s.id = ?`, id,
	).Scan(&sess.ID, &sess.Source, &sess.StartedAt, &sess.EndedAt, &sess.SolveCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: get session: %w", err)
	}
	return &sess, nil
}

// ─── Solves ──────────────────────────────────────────────────────────────────

// Record stores a solve and returns its ID. When the same normalized
// equation was recorded within the dedupe window, that row's solve_count is
// bumped and its ID returned instead.
func (s *Store) Record(p RecordParams) (int64, error) {
	equation := strings.TrimSpace(p.Equation)
	if equation == "" {
		return 0, errors.New("history: record: equation is required")
	}
	normalized := p.Normalized
	if normalized == "" {
		normalized = Normalize(equation)
	}

	window := dedupeWindowExpression(s.cfg.DedupeWindow)
	var existingID int64
	err := s.db.QueryRow(
		`SELECT id FROM solves
		 WHERE normalized = ?
		   AND datetime(created_at) >= datetime('now', ?)
		 ORDER BY created_at DESC
		 LIMIT 1`,
		normalized, window,
	).Scan(&existingID)
	if err == nil {
		if _, err := s.db.Exec(
			`UPDATE solves
			 SET solve_count = solve_count + 1,
			     last_seen_at = datetime('now')
			 WHERE id = ?`,
			existingID,
		); err != nil {
			return 0, fmt.Errorf("history: record: %w", err)
		}
		return existingID, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("history: record: %w", err)
	}

	var degree any
	if p.Error == "" {
		degree = p.Degree
	}
	res, err := s.db.Exec(
		`INSERT INTO solves (session_id, equation, normalized, reduced_form, degree, solution_type, summary, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableString(p.SessionID), equation, normalized, p.ReducedForm, degree,
		p.SolutionType, p.Summary, nullableString(p.Error),
	)
	if err != nil {
		return 0, fmt.Errorf("history: record: %w", err)
	}
	return res.LastInsertId()
}

// Get retrieves one solve by ID.
func (s *Store) Get(id int64) (*Solve, error) {
	solves, err := s.querySolves(selectSolves+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("history: get: %w", err)
	}
	if len(solves) == 0 {
		return nil, ErrNotFound
	}
	return &solves[0], nil
}

// Recent returns the most recently recorded solves, newest first.
func (s *Store) Recent(opts SearchOptions) ([]Solve, error) {
	query, args := filtered(selectSolves+` WHERE 1=1`, opts, "")
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, s.limit(opts.Limit))

	solves, err := s.querySolves(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	return solves, nil
}

// Search runs a full-text query over equation text, reduced form,
// classification and summary. An empty query falls back to Recent.
func (s *Store) Search(query string, opts SearchOptions) ([]SearchResult, error) {
	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		recent, err := s.Recent(opts)
		if err != nil {
			return nil, err
		}
		results := make([]SearchResult, len(recent))
		for i, sv := range recent {
			results[i] = SearchResult{Solve: sv}
		}
		return results, nil
	}

	sqlStr := `
		SELECT o.id, o.session_id, o.equation, o.normalized, o.reduced_form, o.degree,
		       o.solution_type, o.summary, o.error, o.solve_count, o.last_seen_at, o.created_at,
		       fts.rank
		FROM solves_fts fts
		JOIN solves o ON o.id = fts.rowid
		WHERE solves_fts MATCH ?`
	sqlStr, args := filtered(sqlStr, opts, "o.")
	args = append([]any{ftsQuery}, args...)
	sqlStr += ` ORDER BY fts.rank LIMIT ?`
	args = append(args, s.limit(opts.Limit))

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("history: search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var sr SearchResult
		if err := rows.Scan(solveFields(&sr.Solve, &sr.Rank)...); err != nil {
			return nil, fmt.Errorf("history: search: %w", err)
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

// Delete removes a solve permanently.
func (s *Store) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM solves WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("history: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats returns aggregate history statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{ByType: map[string]int{}, ByDegree: map[string]int{}}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions); err != nil {
		return nil, fmt.Errorf("history: stats: %w", err)
	}
	if err := s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(solve_count), 0) FROM solves",
	).Scan(&stats.TotalSolves, &stats.TotalAttempts); err != nil {
		return nil, fmt.Errorf("history: stats: %w", err)
	}

	if err := s.countInto(stats.ByType, "SELECT solution_type, COUNT(*) FROM solves GROUP BY solution_type"); err != nil {
		return nil, err
	}
	if err := s.countInto(stats.ByDegree,
		"SELECT CAST(degree AS TEXT), COUNT(*) FROM solves WHERE degree IS NOT NULL GROUP BY degree"); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) countInto(dst map[string]int, query string) error {
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("history: stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("history: stats: %w", err)
		}
		dst[key] = n
	}
	return rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

const selectSolves = `
	SELECT id, session_id, equation, normalized, reduced_form, degree,
	       solution_type, summary, error, solve_count, last_seen_at, created_at
	FROM solves`

func solveFields(sv *Solve, extra ...any) []any {
	fields := []any{
		&sv.ID, &sv.SessionID, &sv.Equation, &sv.Normalized, &sv.ReducedForm, &sv.Degree,
		&sv.SolutionType, &sv.Summary, &sv.Error, &sv.SolveCount, &sv.LastSeenAt, &sv.CreatedAt,
	}
	return append(fields, extra...)
}

func (s *Store) querySolves(query string, args ...any) ([]Solve, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Solve
	for rows.Next() {
		var sv Solve
		if err := rows.Scan(solveFields(&sv)...); err != nil {
			return nil, err
		}
		results = append(results, sv)
	}
	return results, rows.Err()
}

// filtered appends the SearchOptions filters to query. prefix qualifies
// column names when the query joins tables.
func filtered(query string, opts SearchOptions, prefix string) (string, []any) {
	var args []any
	if opts.Type != "" {
		query += " AND " + prefix + "solution_type = ?"
		args = append(args, opts.Type)
	}
	if opts.SessionID != "" {
		query += " AND " + prefix + "session_id = ?"
		args = append(args, opts.SessionID)
	}
	return query, args
}

func (s *Store) limit(n int) int {
	if n <= 0 {
		n = 10
	}
	if n > s.cfg.MaxSearchResults {
		n = s.cfg.MaxSearchResults
	}
	return n
}

// Normalize is the dedupe key for raw equation text: upper case with all
// whitespace removed, so "x^2 = 1" and "X^2=1" collide.
func Normalize(equation string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, equation)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func dedupeWindowExpression(window time.Duration) string {
	if window <= 0 {
		window = 15 * time.Minute
	}
	minutes := int(window.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return "-" + strconv.Itoa(minutes) + " minutes"
}

// sanitizeFTS wraps each word in quotes for safe FTS5 queries.
// "x^2 real" → `"x^2" "real"`
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	out := words[:0]
	for _, w := range words {
		w = strings.ReplaceAll(w, `"`, "")
		if w == "" {
			continue
		}
		out = append(out, `"`+w+`"`)
	}
	return strings.Join(out, " ")
}

// Truncate shortens s to max bytes with an ellipsis.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
