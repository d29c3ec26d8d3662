package files

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storebox/internal/common"
	"github.com/dmitrijs2005/storebox/internal/server/models"
)

// DefaultSort orders listings by creation time, newest first.
const DefaultSort = "created_at-desc"

// Criteria is an ephemeral, immutable description of one listing query:
// the requesting user's identity, optional type and name filters, sort and
// limit. Build one with NewCriteria; it is never persisted.
type Criteria struct {
	ownerID    string
	ownerEmail string
	types      []string
	search     string
	sortColumn string
	sortDesc   bool
	limit      int
}

// NewCriteria validates the requesting user and captures the filters.
//
// It fails fast with common.ErrUnauthenticated when the user cannot be
// resolved — a query without its visibility predicate must never be built.
// sort has the form "field-direction"; direction "asc" sorts ascending,
// anything else (including absent) descending. An unknown field falls back
// to creation time. limit <= 0 means no cap.
func NewCriteria(user *models.User, types []string, search, sort string, limit int) (*Criteria, error) {
	if user == nil || user.ID == "" {
		return nil, common.ErrUnauthenticated
	}

	if sort == "" {
		sort = DefaultSort
	}
	column, direction, _ := strings.Cut(sort, "-")

	c := &Criteria{
		ownerID:    user.ID,
		ownerEmail: user.Email,
		types:      types,
		search:     search,
		sortColumn: sortColumn(column),
		sortDesc:   !strings.EqualFold(direction, "asc"),
		limit:      limit,
	}
	return c, nil
}

// Allowed sort columns. Anything else falls back to created_at so user
// input never reaches the ORDER BY clause directly.
func sortColumn(field string) string {
	switch field {
	case "name", "size", "created_at", "updated_at":
		return field
	}
	return "created_at"
}

// whereClause renders the predicates in insertion order:
// visibility first (owner match OR collaborator-list containment, both
// evaluated by the database), then the type set, then the name substring.
// startArg is the number of the first $-placeholder.
func (c *Criteria) whereClause(startArg int) (string, []any) {
	argNum := startArg

	// visibility is unconditional
	conditions := []string{fmt.Sprintf("(owner_id = $%d OR shared_with @> $%d)", argNum, argNum+1)}
	args := []any{c.ownerID, emailJSON(c.ownerEmail)}
	argNum += 2

	if len(c.types) > 0 {
		placeholders := make([]string, len(c.types))
		for i, t := range c.types {
			placeholders[i] = fmt.Sprintf("$%d", argNum)
			args = append(args, t)
			argNum++
		}
		conditions = append(conditions, fmt.Sprintf("file_type IN (%s)", strings.Join(placeholders, ", ")))
	}

	if c.search != "" {
		// substring semantics are whatever ILIKE does; not reimplemented
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argNum))
		args = append(args, "%"+c.search+"%")
		argNum++
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause renders the whitelisted ORDER BY.
func (c *Criteria) orderClause() string {
	direction := "DESC"
	if !c.sortDesc {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", c.sortColumn, direction)
}

// limitClause renders "LIMIT $n" when a positive limit is set.
func (c *Criteria) limitClause(argNum int) (string, []any) {
	if c.limit <= 0 {
		return "", nil
	}
	return fmt.Sprintf("LIMIT $%d", argNum), []any{c.limit}
}

// emailJSON renders a one-element JSONB array for the @> containment test
// against the shared_with column.
func emailJSON(email string) []byte {
	b, _ := json.Marshal([]string{email})
	return b
}
