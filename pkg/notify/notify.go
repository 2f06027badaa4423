// Package notify formats price snapshots and delivers them through ntfy and
// email.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
)

// ErrNoNotifiers is returned by New when no channel is configured.
var ErrNoNotifiers = errors.New("no notification channel configured")

// Message is a channel-independent notification.
type Message struct {
	Title string
	Body  string
	Tags  string // ntfy tags; email ignores them
}

type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// Multi sends to every notifier and joins the failures.
type Multi []Notifier

func (m Multi) Name() string { return "multi" }

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// New returns the configured channels, or ErrNoNotifiers.
func New(cfg models.NotifyConfig, log *logger.Log) (Notifier, error) {
	var m Multi
	if cfg.Ntfy.Enabled() {
		m = append(m, NewNtfy(cfg.Ntfy))
	}
	if cfg.Email.Enabled() {
		m = append(m, NewEmail(cfg.Email))
	}
	if len(m) == 0 {
		return nil, ErrNoNotifiers
	}
	log.WithComponent("notify").WithFields(logger.Fields{"channels": len(m)}).Debug("notifiers configured")
	return m, nil
}
