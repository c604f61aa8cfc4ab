// file: internals/features/members/search/service/render_sql.go
package service

import (
	"fmt"
	"strings"
)

// SQLRenderer menerjemahkan pohon predikat ke klausa WHERE berparameter (gorm `?`).
type SQLRenderer struct {
	Columns map[string]string // logical field → kolom
	LikeOp  string            // "ILIKE" (postgres) / "LIKE" (sqlite, case-insensitive utk ASCII)
}

func NewPostgresRenderer(columns map[string]string) SQLRenderer {
	return SQLRenderer{Columns: columns, LikeOp: "ILIKE"}
}

func NewSQLiteRenderer(columns map[string]string) SQLRenderer {
	return SQLRenderer{Columns: columns, LikeOp: "LIKE"}
}

// RendererForDialect memilih renderer dari nama dialect gorm (db.Dialector.Name()).
func RendererForDialect(dialect string, columns map[string]string) SQLRenderer {
	if dialect == "postgres" {
		return NewPostgresRenderer(columns)
	}
	return NewSQLiteRenderer(columns)
}

// Render menghasilkan (sql, args). Node nil → ("", nil, nil).
func (r SQLRenderer) Render(n Node) (string, []any, error) {
	if n == nil {
		return "", nil, nil
	}
	var sb strings.Builder
	args := make([]any, 0, 8)
	if err := r.render(&sb, &args, n); err != nil {
		return "", nil, err
	}
	return sb.String(), args, nil
}

func (r SQLRenderer) render(sb *strings.Builder, args *[]any, n Node) error {
	switch t := n.(type) {
	case *Group:
		if t == nil || len(t.Nodes) == 0 {
			sb.WriteString("1 = 1")
			return nil
		}
		sb.WriteString("(")
		for i, child := range t.Nodes {
			if i > 0 {
				sb.WriteString(" " + string(t.Conj) + " ")
			}
			if err := r.render(sb, args, child); err != nil {
				return err
			}
		}
		sb.WriteString(")")
		return nil
	case *Cond:
		if t == nil {
			sb.WriteString("1 = 1")
			return nil
		}
		return r.renderCond(sb, args, t)
	default:
		return fmt.Errorf("unsupported predicate node %T", n)
	}
}

func (r SQLRenderer) renderCond(sb *strings.Builder, args *[]any, c *Cond) error {
	col, ok := r.Columns[c.Field]
	if !ok || col == "" {
		return fmt.Errorf("unknown field %q", c.Field)
	}
	like := r.LikeOp
	if like == "" {
		like = "ILIKE"
	}

	switch c.Op {
	case OpEq:
		sb.WriteString(col + " = ?")
		*args = append(*args, c.Value)
	case OpILike:
		sb.WriteString(col + " " + like + ` ? ESCAPE '\'`)
		*args = append(*args, "%"+EscapeLike(c.Value)+"%")
	case OpPrefix:
		sb.WriteString(col + " " + like + ` ? ESCAPE '\'`)
		*args = append(*args, EscapeLike(c.Value)+"%")
	case OpIn:
		if len(c.Values) == 0 {
			sb.WriteString("1 = 0")
			return nil
		}
		sb.WriteString(col + " IN ?")
		*args = append(*args, c.Values)
	case OpNotIn:
		if len(c.Values) == 0 {
			sb.WriteString("1 = 1")
			return nil
		}
		sb.WriteString("(" + col + " IS NULL OR " + col + " NOT IN ?)")
		*args = append(*args, c.Values)
	default:
		return fmt.Errorf("unsupported operator %q", c.Op)
	}
	return nil
}

// EscapeLike meng-escape wildcard LIKE (\ % _).
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
