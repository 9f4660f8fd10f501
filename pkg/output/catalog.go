package output

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	"github.com/coolbeans/examocr/pkg/extract"
	"github.com/coolbeans/examocr/pkg/quiz"
)

// Driver selects the catalog's SQL backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Record paths stored in questions.path.
const (
	PathDirect = "direct"
	PathParsed = "parsed"
)

// Catalog mirrors manifest entries and parsed records into SQL tables.
type Catalog struct {
	db     *sql.DB
	driver Driver
}

// OpenCatalog opens the database and ensures the schema exists.
func OpenCatalog(ctx context.Context, driver Driver, dsn string) (*Catalog, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:examocr.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
	default:
		return nil, fmt.Errorf("unsupported catalog driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect catalog: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	c := &Catalog{db: db, driver: driver}
	if err := c.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	return c, nil
}

// Close releases the database handle.
func (c *Catalog) Close() error { return c.db.Close() }

func (c *Catalog) ensureSchema(ctx context.Context) error {
	schema := schemaSQLite
	if c.driver == DriverPostgres {
		schema = schemaPostgres
	}
	_, err := c.db.ExecContext(ctx, schema)
	return err
}

// Record upserts the document row and replaces its question rows with the
// records of both parsing paths. A nil result leaves the document without
// questions.
func (c *Catalog) Record(ctx context.Context, entry *DocumentEntry, result *extract.Result) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO documents (name,source,status,strategy,direct_count,parsed_count,warnings,raw_sha256,error,run_id,processed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (name) DO UPDATE SET source=EXCLUDED.source, status=EXCLUDED.status, strategy=EXCLUDED.strategy,
			direct_count=EXCLUDED.direct_count, parsed_count=EXCLUDED.parsed_count, warnings=EXCLUDED.warnings,
			raw_sha256=EXCLUDED.raw_sha256, error=EXCLUDED.error, run_id=EXCLUDED.run_id, processed_at=EXCLUDED.processed_at`,
		entry.Name, entry.Source, entry.Status, entry.Strategy, entry.DirectQuestions, entry.ParsedQuestions,
		entry.Warnings, entry.RawSHA256, entry.Error, entry.RunID, entry.ProcessedAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", entry.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE document=$1`, entry.Name); err != nil {
		return fmt.Errorf("clear questions of %s: %w", entry.Name, err)
	}
	if result != nil {
		if err := insertQuestions(ctx, tx, entry.Name, PathDirect, result.Direct); err != nil {
			return err
		}
		if err := insertQuestions(ctx, tx, entry.Name, PathParsed, result.Parsed); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertQuestions(ctx context.Context, tx *sql.Tx, document, path string, questions []quiz.Question) error {
	for _, q := range questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		oj, err := json.Marshal(options)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO questions (document,path,id,question,options_json,answer,explanation)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			document, path, q.ID, q.Question, string(oj), q.Answer, q.Explanation)
		if err != nil {
			return fmt.Errorf("insert %s question %d of %s: %w", path, q.ID, document, err)
		}
	}
	return nil
}

// Questions returns the stored records of one document and path, by id.
func (c *Catalog) Questions(ctx context.Context, document, path string) ([]quiz.Question, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id,question,options_json,answer,explanation FROM questions
		WHERE document=$1 AND path=$2 ORDER BY id`, document, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		var q quiz.Question
		var oj string
		if err := rows.Scan(&q.ID, &q.Question, &oj, &q.Answer, &q.Explanation); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Status returns the stored status of a document, or "" when unknown.
func (c *Catalog) Status(ctx context.Context, document string) (string, error) {
	var status string
	err := c.db.QueryRowContext(ctx, `SELECT status FROM documents WHERE name=$1`, document).Scan(&status)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return status, err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS documents (
  name TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  status TEXT NOT NULL,
  strategy TEXT NOT NULL DEFAULT '',
  direct_count INTEGER NOT NULL DEFAULT 0,
  parsed_count INTEGER NOT NULL DEFAULT 0,
  warnings INTEGER NOT NULL DEFAULT 0,
  raw_sha256 TEXT NOT NULL DEFAULT '',
  error TEXT NOT NULL DEFAULT '',
  run_id TEXT NOT NULL,
  processed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  document TEXT NOT NULL REFERENCES documents(name) ON DELETE CASCADE,
  path TEXT NOT NULL,                 -- direct | parsed
  id INTEGER NOT NULL,
  question TEXT NOT NULL,
  options_json TEXT NOT NULL,
  answer TEXT NOT NULL DEFAULT '',
  explanation TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (document, path, id)
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS documents (
  name TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  status TEXT NOT NULL,
  strategy TEXT NOT NULL DEFAULT '',
  direct_count INTEGER NOT NULL DEFAULT 0,
  parsed_count INTEGER NOT NULL DEFAULT 0,
  warnings INTEGER NOT NULL DEFAULT 0,
  raw_sha256 TEXT NOT NULL DEFAULT '',
  error TEXT NOT NULL DEFAULT '',
  run_id TEXT NOT NULL,
  processed_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  document TEXT NOT NULL REFERENCES documents(name) ON DELETE CASCADE,
  path TEXT NOT NULL,
  id INTEGER NOT NULL,
  question TEXT NOT NULL,
  options_json TEXT NOT NULL,
  answer TEXT NOT NULL DEFAULT '',
  explanation TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (document, path, id)
);
`
