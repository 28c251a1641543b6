package store

import (
	"context"
	"log/slog"
	"time"
)

// Audit appends a row to the operational log table. The engine never
// reads it back; a failed write must not fail the caller.
func (d *DB) Audit(ctx context.Context, level, component, message string) {
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO audit_log (level, component, message, created_at)
VALUES (?, ?, ?, ?);`,
		level, component, message, fmtTime(time.Now()))
	if err != nil {
		slog.Warn("audit write failed", "component", component, "err", err)
	}
}
