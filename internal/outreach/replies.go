package outreach

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/domain"
	"dispatch-engine/internal/store"
)

// ReplyChecker scans the inbox for unseen mail from known leads. A
// reply is the strongest conversion signal we get, so matching leads
// are promoted to `converted` and the mail is marked seen.
type ReplyChecker struct {
	db  *store.DB
	cfg config.Config
	now func() time.Time
}

func NewReplyChecker(db *store.DB, cfg config.Config) *ReplyChecker {
	return &ReplyChecker{db: db, cfg: cfg, now: time.Now}
}

// Run connects, scans up to max unseen messages, and returns how many
// leads were promoted.
func (r *ReplyChecker) Run(ctx context.Context, password string, max int) (int, error) {
	if r.cfg.Outreach.IMAPHost == "" || r.cfg.Outreach.SMTPUser == "" {
		return 0, fmt.Errorf("outreach: imap not configured")
	}
	if max <= 0 {
		max = 50
	}

	byEmail, err := r.db.LeadsByEmail(ctx)
	if err != nil {
		return 0, err
	}
	if len(byEmail) == 0 {
		return 0, nil
	}

	addr := fmt.Sprintf("%s:%d", r.cfg.Outreach.IMAPHost, r.cfg.Outreach.IMAPPort)
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: r.cfg.Outreach.IMAPHost},
	})
	if err != nil {
		return 0, fmt.Errorf("imap dial: %w", err)
	}
	defer func() { _ = c.Close() }()

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(r.cfg.Outreach.SMTPUser, password).Wait(); err != nil {
		return 0, fmt.Errorf("imap login: %w", err)
	}
	defer func() {
		if err := c.Logout().Wait(); err != nil {
			slog.Debug("imap logout", "err", err)
		}
	}()

	if _, err := c.Select("INBOX", &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return 0, fmt.Errorf("imap select inbox: %w", err)
	}

	// Only recent mail; anything older than 3 months is stale anyway.
	searchData, err := c.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   r.now().AddDate(0, -3, 0),
	}, nil).Wait()
	if err != nil {
		return 0, fmt.Errorf("imap search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return 0, nil
	}
	if len(uids) > max {
		uids = uids[len(uids)-max:] // newest UIDs sort last
	}

	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{UID: true, Envelope: true})
	defer func() { _ = fetchCmd.Close() }()

	converted := 0
	var matched []imap.UID
	for {
		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return converted, fmt.Errorf("imap fetch: %w", err)
		}
		if buf.Envelope == nil {
			continue
		}

		for i := range buf.Envelope.From {
			from := strings.ToLower(strings.TrimSpace(buf.Envelope.From[i].Addr()))
			leadID, ok := byEmail[from]
			if !ok {
				continue
			}
			if err := r.db.SetLeadStatus(ctx, leadID, domain.LeadConverted, r.now()); err != nil {
				slog.Warn("promote replied lead", "lead", leadID, "err", err)
				continue
			}
			subject := buf.Envelope.Subject
			if _, err := r.db.InsertMessage(ctx, domain.Message{
				LeadID: leadID, Channel: domain.ChannelEmail, Template: "reply",
				Content: fmt.Sprintf("inbound reply from %s: %s", from, subject),
				Status:  domain.MessageSent, SentAt: r.now(),
			}); err != nil {
				slog.Warn("log inbound reply", "lead", leadID, "err", err)
			}
			r.db.Audit(ctx, "INFO", "outreach",
				fmt.Sprintf("lead %d replied (%s), marked converted", leadID, from))
			matched = append(matched, buf.UID)
			converted++
			break
		}
	}
	if err := fetchCmd.Close(); err != nil {
		return converted, fmt.Errorf("imap fetch close: %w", err)
	}

	if len(matched) > 0 {
		cmd := c.Store(imap.UIDSetNum(matched...), &imap.StoreFlags{
			Op: imap.StoreFlagsAdd, Silent: true, Flags: []imap.Flag{imap.FlagSeen},
		}, nil)
		if err := cmd.Close(); err != nil {
			return converted, fmt.Errorf("imap mark seen: %w", err)
		}
	}
	return converted, nil
}
