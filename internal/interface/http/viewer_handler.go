package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/arielgp/secrets-service/pkg/response"
)

const viewerRowLimit = 100

// ViewerHandler serves a read-only dump of the public schema. Table names
// come exclusively from information_schema and are quoted as identifiers;
// nothing client-supplied ever reaches a query.
type ViewerHandler struct {
	Pool   *pgxpool.Pool
	Logger *logrus.Logger
}

func NewViewerHandler(pool *pgxpool.Pool, logger *logrus.Logger) *ViewerHandler {
	return &ViewerHandler{Pool: pool, Logger: logger}
}

type tableDump struct {
	Rows  []map[string]any `json:"rows,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Dump handles GET /api/db: every public table with up to 100 rows each.
func (h *ViewerHandler) Dump(c *gin.Context) {
	ctx := c.Request.Context()

	names, err := h.listTables(ctx)
	if err != nil {
		h.Logger.WithError(err).Error("listing tables failed")
		response.Error(c, http.StatusInternalServerError, "database unavailable", nil)
		return
	}

	tables := make(map[string]tableDump, len(names))
	for _, name := range names {
		rows, err := h.dumpTable(ctx, name)
		if err != nil {
			// one broken table must not take down the whole view
			h.Logger.WithError(err).WithField("table", name).Warn("dumping table failed")
			tables[name] = tableDump{Error: "could not read table"}
			continue
		}
		tables[name] = tableDump{Rows: rows}
	}

	response.Success(c, http.StatusOK, gin.H{"tables": tables}, "database snapshot")
}

func (h *ViewerHandler) listTables(ctx context.Context) ([]string, error) {
	rows, err := h.Pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
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

func (h *ViewerHandler) dumpTable(ctx context.Context, name string) ([]map[string]any, error) {
	// name originates from information_schema, never from the client
	query := "SELECT * FROM " + pgx.Identifier{name}.Sanitize() + " LIMIT $1"
	rows, err := h.Pool.Query(ctx, query, viewerRowLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []map[string]any{}
	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
