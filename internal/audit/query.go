package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/db"
)

// Entry is the read-model row returned by the query service.
type Entry struct {
	ID           int64           `db:"id" json:"id"`
	UserID       string          `db:"user_id" json:"userId"`
	ClubID       int64           `db:"club_id" json:"clubId"`
	Action       string          `db:"action" json:"action"`
	OriginalData json.RawMessage `db:"original_data" json:"originalData"`
	NewData      json.RawMessage `db:"new_data" json:"newData"`
	ChangedAt    time.Time       `db:"changed_at" json:"changedAt"`
}

// Filter narrows a listing. A nil ClubID matches every club; an empty
// Actions slice matches every action.
type Filter struct {
	ClubID  *uint
	Actions []string
}

// Query lists committed audit entries. Each call re-queries current state.
type Query struct {
	pool *pgxpool.Pool
}

// NewQuery returns a Query reading from the given pool.
func NewQuery(pool *pgxpool.Pool) *Query {
	return &Query{pool: pool}
}

// List returns entries newest-first. Ties on changed_at are broken by
// ascending id so pagination stays deterministic.
func (q *Query) List(ctx context.Context, f Filter) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, db.DefaultTimeout)
	defer cancel()

	query := `SELECT id, user_id, club_id, action, original_data, new_data, changed_at FROM audit_log`
	var (
		args  []any
		where []string
	)

	if len(f.Actions) > 0 {
		args = append(args, f.Actions)
		where = append(where, fmt.Sprintf("action = ANY($%d)", len(args)))
	}
	if f.ClubID != nil {
		args = append(args, int64(*f.ClubID))
		where = append(where, fmt.Sprintf("club_id = $%d", len(args)))
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY changed_at DESC, id ASC"

	entries := []Entry{}
	if err := pgxscan.Select(ctx, q.pool, &entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}
