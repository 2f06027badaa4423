package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/go-resty/resty/v2"
)

// Ntfy publishes to an ntfy topic.
type Ntfy struct {
	client   *resty.Client
	url      string
	priority string
	tags     string
}

func NewNtfy(cfg models.NtfyConfig) *Ntfy {
	return &Ntfy{
		client:   resty.New(),
		url:      strings.TrimRight(cfg.Server, "/") + "/" + cfg.Topic,
		priority: cfg.Priority,
		tags:     cfg.Tags,
	}
}

func (n *Ntfy) Name() string { return "ntfy" }

func (n *Ntfy) Notify(ctx context.Context, msg Message) error {
	tags := msg.Tags
	if tags == "" {
		tags = n.tags
	}

	req := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetHeader("Title", msg.Title).
		SetBody([]byte(msg.Body))
	if n.priority != "" {
		req.SetHeader("Priority", n.priority)
	}
	if tags != "" {
		req.SetHeader("Tags", tags)
	}

	resp, err := req.Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to post notification: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("ntfy returned status %d", resp.StatusCode())
	}
	return nil
}
