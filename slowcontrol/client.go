// Package slowcontrol is a read-only client for the detector slow control
// database. The live system is a PostgreSQL server; snapshots of it are
// distributed as SQLite files for offline work, and the client speaks to
// both through database/sql.
package slowcontrol

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	"github.com/mwantia/textdb/data"
	"github.com/mwantia/textdb/log"
	_ "modernc.org/sqlite" // snapshot driver
)

// EnvPassword is consulted for the database password when none is given
// explicitly.
const EnvPassword = "TEXTDB_SCDB_PW"

type flavor int

const (
	flavorPostgres flavor = iota
	flavorSQLite
)

// bind returns the placeholder for the i-th query parameter.
func (f flavor) bind(i int) string {
	if f == flavorPostgres {
		return fmt.Sprintf("$%d", i)
	}

	return "?"
}

// timeValue converts a query timestamp into the driver's tstamp
// representation. Snapshots store timestamps as RFC 3339 UTC text, which
// compares chronologically.
func (f flavor) timeValue(t time.Time) any {
	if f == flavorPostgres {
		return t.UTC()
	}

	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// Options holds the connection parameters for the live database.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Logger   *log.Logger
}

type Option func(*Options) error

func newDefaultOptions() *Options {
	return &Options{
		Host:     "localhost",
		Port:     5432,
		User:     "scuser",
		Database: "scdb",
	}
}

func WithHost(host string) Option {
	return func(o *Options) error {
		o.Host = host
		return nil
	}
}

func WithPort(port int) Option {
	return func(o *Options) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("%w: invalid port %d", data.ErrFormat, port)
		}
		o.Port = port
		return nil
	}
}

func WithPassword(password string) Option {
	return func(o *Options) error {
		o.Password = password
		return nil
	}
}

// WithDatabase selects a database other than the default "scdb", e.g. a
// database holding an earlier deployment period.
func WithDatabase(name string) Option {
	return func(o *Options) error {
		o.Database = name
		return nil
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *Options) error {
		o.Logger = logger
		return nil
	}
}

// Client is a handle on one slow control database, live or snapshot.
// It only ever reads.
type Client struct {
	db      *sql.DB
	flavor  flavor
	session string
	log     *log.Logger
}

// Connect opens the live database. Authentication uses the read-only
// user unless overridden; the password falls back to $TEXTDB_SCDB_PW
// when not passed explicitly.
func Connect(ctx context.Context, opts ...Option) (*Client, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if options.Password == "" {
		options.Password = os.Getenv(EnvPassword)
	}
	if options.Password == "" {
		return nil, fmt.Errorf("%w: no database password given and %s is unset", data.ErrFormat, EnvPassword)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		options.User, options.Password, options.Host, options.Port, options.Database)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	return newClient(ctx, db, flavorPostgres, options.Logger)
}

// OpenSnapshot opens a local SQLite snapshot of the slow control
// database. Pass ":memory:" for an empty in-memory database.
func OpenSnapshot(ctx context.Context, path string, opts ...Option) (*Client, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	return newClient(ctx, db, flavorSQLite, options.Logger)
}

func newClient(ctx context.Context, db *sql.DB, f flavor, logger *log.Logger) (*Client, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if logger == nil {
		logger = log.Discard()
	}

	session := uuid.Must(uuid.NewV7()).String()
	logger.Info("opened slow control session %s", session)

	return &Client{
		db:      db,
		flavor:  f,
		session: session,
		log:     logger,
	}, nil
}

// Session returns the identifier attached to this connection's log lines.
func (c *Client) Session() string {
	return c.session
}

func (c *Client) Close() error {
	c.log.Debug("closing slow control session %s", c.session)
	return c.db.Close()
}

// Tables lists the tables available in the database.
func (c *Client) Tables(ctx context.Context) ([]string, error) {
	query := `SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename`
	if c.flavor == flavorSQLite {
		query = `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`
	}

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// Columns lists the columns of a table.
func (c *Client) Columns(ctx context.Context, table string) ([]string, error) {
	ident, err := quoteIdent(table)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, "SELECT * FROM "+ident+" LIMIT 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows.Columns()
}

// Select runs an arbitrary read query and returns one document per row,
// keyed by column name.
func (c *Client) Select(ctx context.Context, query string, args ...any) ([]*data.Document, error) {
	c.log.Debug("[%s] %s", c.session, query)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rowsToDocuments(rows)
}

// Status collects everything the slow control database knows about one
// readout channel at a given time. The channel document is a channel map
// entry; system ("geds", "spms", "pmts") is taken from its "system" key
// when empty. Tables with no row for the channel are skipped with a
// warning.
func (c *Client) Status(ctx context.Context, channel *data.Document, at time.Time, system string) (*data.Document, error) {
	if system == "" {
		raw, ok := channel.Get("system")
		if s, isStr := raw.(string); ok && isStr {
			system = s
		}
	}

	tables, ok := systemTables[system]
	if !ok {
		return nil, fmt.Errorf("%w: system %q not supported", data.ErrFormat, system)
	}

	paths := addressPaths[system]
	address, ok := channel.At(paths[0])
	if !ok {
		return nil, fmt.Errorf("%w: channel entry has no %s", data.ErrFormat, paths[0])
	}
	chanNo, ok := channel.At(paths[1])
	if !ok {
		return nil, fmt.Errorf("%w: channel entry has no %s", data.ErrFormat, paths[1])
	}

	output := data.NewDocument()
	for _, table := range tables {
		row, err := c.latestRow(ctx, table, address, chanNo, at)
		if err != nil {
			return nil, err
		}
		if row == nil {
			c.log.Warn("[%s] no row in %s for %s=%v channel=%v", c.session, table.Name, table.Key, address, chanNo)
			continue
		}

		for _, key := range row.Keys() {
			value, _ := row.Get(key)
			output.Set(key, value)
		}
	}

	if output.Len() == 0 {
		return nil, fmt.Errorf("%w: no slow control information for channel", data.ErrNotFound)
	}

	return output, nil
}

// latestRow fetches the newest row of table for the addressed channel not
// after the query time, restricted to the table's summary columns.
func (c *Client) latestRow(ctx context.Context, table Table, address, chanNo any, at time.Time) (*data.Document, error) {
	columns := make([]string, 0, len(table.Summary))
	for _, column := range table.Summary {
		ident, err := quoteIdent(column)
		if err != nil {
			return nil, err
		}
		columns = append(columns, ident)
	}

	name, err := quoteIdent(table.Name)
	if err != nil {
		return nil, err
	}
	key, err := quoteIdent(table.Key)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = %s AND channel = %s AND tstamp <= %s ORDER BY tstamp DESC LIMIT 1",
		strings.Join(columns, ", "), name, key,
		c.flavor.bind(1), c.flavor.bind(2), c.flavor.bind(3))

	docs, err := c.Select(ctx, query, address, chanNo, c.flavor.timeValue(at))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	return docs[0], nil
}

func rowsToDocuments(rows *sql.Rows) ([]*data.Document, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var docs []*data.Document
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		doc := data.NewDocument()
		for i, column := range columns {
			if raw, ok := values[i].([]byte); ok {
				values[i] = string(raw)
			}
			doc.Set(column, values[i])
		}

		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// quoteIdent double-quotes an SQL identifier, which both supported
// drivers accept.
func quoteIdent(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "\"\x00") {
		return "", fmt.Errorf("%w: bad identifier %q", data.ErrFormat, name)
	}

	return `"` + name + `"`, nil
}
