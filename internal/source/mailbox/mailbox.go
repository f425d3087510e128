// Package mailbox turns unseen messages in an IMAP folder into leads:
// the From header becomes name/email and the Subject becomes the intent
// signal. Used by serve mode's poll loop and the --mailbox flag.
package mailbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"leadflow-engine/internal/config"
	"leadflow-engine/internal/domain"
)

const fetchMax = 50

type Source struct {
	Cfg      config.Config
	Password string
}

func (s *Source) Name() string { return "mailbox" }

// Fetch connects, pulls unseen messages, marks them seen, and maps them
// to leads. One connection per poll.
func (s *Source) Fetch(ctx context.Context) ([]domain.Lead, error) {
	mb := s.Cfg.Mailbox
	addr := fmt.Sprintf("%s:%d", mb.IMAPHost, mb.IMAPPort)

	c, err := dialAndLogin(ctx, addr, mb.IMAPHost, mb.Username, s.Password)
	if err != nil {
		return nil, err
	}
	defer logoutAndClose(c)

	if _, err := c.Select(mb.Folder, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", mb.Folder, err)
	}

	// Don't consider anything older than a month; stale mail is not a lead.
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   time.Now().AddDate(0, -1, 0),
	}
	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if len(uids) > fetchMax {
		uids = uids[len(uids)-fetchMax:] // newest first in UID order
	}

	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:      true,
		Envelope: true,
	})
	defer func() { _ = fetchCmd.Close() }()

	var leads []domain.Lead
	var seen []imap.UID
	for {
		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}
		if buf.Envelope == nil || len(buf.Envelope.From) == 0 {
			continue
		}

		from := buf.Envelope.From[0]
		email := strings.TrimSpace(from.Addr())
		if email == "" {
			continue
		}

		leads = append(leads, domain.Lead{
			Name:         strings.TrimSpace(from.Name),
			Email:        email,
			IntentSignal: strings.TrimSpace(buf.Envelope.Subject),
		})
		seen = append(seen, buf.UID)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}

	if err := markSeen(c, seen); err != nil {
		return leads, err
	}
	return leads, nil
}

func dialAndLogin(ctx context.Context, addr, host, username, password string) (*imapclient.Client, error) {
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}

	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// Best-effort close on context cancel.
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(username, password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

func markSeen(c *imapclient.Client, uids []imap.UID) error {
	if len(uids) == 0 {
		return nil
	}
	cmd := c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap store add seen: %w", err)
	}
	return nil
}

func logoutAndClose(c *imapclient.Client) {
	if err := c.Logout().Wait(); err == nil {
		_ = c.Close()
		return
	}
	_ = c.Close()
}
