package store

import (
	"context"
	"fmt"

	"dispatch-engine/internal/domain"
)

func (d *DB) InsertMessage(ctx context.Context, m domain.Message) (int64, error) {
	if !m.Channel.Valid() {
		return 0, fmt.Errorf("insert message: invalid channel %q", m.Channel)
	}
	if !m.Status.Valid() {
		return 0, fmt.Errorf("insert message: invalid status %q", m.Status)
	}

	res, err := d.Pool.ExecContext(ctx, `
INSERT INTO messages (lead_id, channel, template, content, status, sent_at)
VALUES (?, ?, ?, ?, ?, ?);`,
		m.LeadID, string(m.Channel), m.Template, m.Content, string(m.Status), fmtTime(m.SentAt))
	if err != nil {
		if foreignKeyViolated(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("insert message: %w", err)
	}
	return res.LastInsertId()
}
