package catalogtest

import (
	"context"
	"database/sql/driver"
	"io"
	"sync"

	"github.com/go-faster/errors"
)

// ProductColumns is the column list PostgresSource scans.
var ProductColumns = []string{"id", "name", "description", "brand", "price", "rating", "reviews", "in_stock", "image", "link"}

// SQLStub is a database/sql connector that answers every query with Rows,
// or with Err when set. Open it with sql.OpenDB.
type SQLStub struct {
	Rows [][]driver.Value
	Err  error

	mu      sync.Mutex
	queries []string
}

// Queries returns the statements received so far.
func (s *SQLStub) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func (s *SQLStub) Connect(context.Context) (driver.Conn, error) { return stubConn{s}, nil }
func (s *SQLStub) Driver() driver.Driver                        { return stubDriver{s} }

type stubDriver struct{ s *SQLStub }

func (d stubDriver) Open(string) (driver.Conn, error) { return stubConn(d), nil }

type stubConn struct{ s *SQLStub }

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("prepare not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("tx not supported") }

func (c stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.s.mu.Lock()
	c.s.queries = append(c.s.queries, query)
	c.s.mu.Unlock()

	if c.s.Err != nil {
		return nil, c.s.Err
	}
	return &stubRows{rows: c.s.Rows}, nil
}

type stubRows struct {
	rows [][]driver.Value
	i    int
}

func (r *stubRows) Columns() []string { return ProductColumns }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}
