package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Filter narrows board listings. Empty fields are ignored.
type Filter struct {
	Query    string // case-insensitive substring over the text columns
	Category string
	Status   string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// textMatch matches q as a substring of any of the given columns.
func textMatch(q string, columns ...string) sq.Sqlizer {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(q)) + "%"
	or := sq.Or{}
	for _, c := range columns {
		or = append(or, sq.Expr(c+` LIKE ? ESCAPE '\'`, pattern))
	}
	return or
}

// apply adds the filter's conditions to a select builder. textColumns are the
// columns searched by Query.
func (f Filter) apply(b sq.SelectBuilder, textColumns ...string) sq.SelectBuilder {
	if strings.TrimSpace(f.Query) != "" {
		b = b.Where(textMatch(f.Query, textColumns...))
	}
	if f.Category != "" {
		b = b.Where(sq.Eq{"category": f.Category})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	return b
}
