package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"wisdomtree/internal/config"
)

const userAgent = "WisdomTree-Go/0.1.0"

// Service defines the notification surface exposed to the daemon.
type Service interface {
	NotifyWorkComplete(ctx context.Context, preset string, workDuration time.Duration) error
	NotifyBreakComplete(ctx context.Context, preset string) error
	NotifySessionComplete(ctx context.Context, preset string, treeAge int64) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when
// configured. When no ntfy topic is configured, a noop implementation
// is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	dedup := time.Duration(cfg.Notifications.DedupWindowSeconds) * time.Second

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:        topic,
		client:          client,
		dedupWindow:     dedup,
		lastSent:        make(map[string]time.Time),
		workComplete:    cfg.Notifications.WorkComplete,
		breakComplete:   cfg.Notifications.BreakComplete,
		sessionComplete: cfg.Notifications.SessionComplete,
		errors:          cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client

	mu          sync.Mutex
	dedupWindow time.Duration
	lastSent    map[string]time.Time

	workComplete    bool
	breakComplete   bool
	sessionComplete bool
	errors          bool
}

func (n *ntfyService) NotifyWorkComplete(ctx context.Context, preset string, workDuration time.Duration) error {
	if !n.workComplete {
		return nil
	}
	preset = strings.TrimSpace(preset)
	data := payload{
		title:   "WisdomTree - Focus Complete",
		message: fmt.Sprintf("Focus block finished: %s (%s). Time for a break.", preset, formatDuration(workDuration)),
		tags:    []string{"wisdomtree", "work", "completed"},
	}
	return n.send(ctx, "work:"+preset, data)
}

func (n *ntfyService) NotifyBreakComplete(ctx context.Context, preset string) error {
	if !n.breakComplete {
		return nil
	}
	preset = strings.TrimSpace(preset)
	data := payload{
		title:   "WisdomTree - Break Over",
		message: fmt.Sprintf("Break finished: %s. Back to work.", preset),
		tags:    []string{"wisdomtree", "break", "completed"},
	}
	return n.send(ctx, "break:"+preset, data)
}

func (n *ntfyService) NotifySessionComplete(ctx context.Context, preset string, treeAge int64) error {
	if !n.sessionComplete {
		return nil
	}
	preset = strings.TrimSpace(preset)
	data := payload{
		title:    "WisdomTree - Session Complete",
		message:  fmt.Sprintf("Session complete: %s. Your tree is now age %d.", preset, treeAge),
		tags:     []string{"wisdomtree", "session", "completed"},
		priority: "high",
	}
	return n.send(ctx, "session:"+preset, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "WisdomTree - Error",
		message:  builder.String(),
		tags:     []string{"wisdomtree", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, "error:"+contextLabel, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "WisdomTree - Test",
		message:  "Notification system test",
		tags:     []string{"wisdomtree", "test"},
		priority: "low",
	}
	return n.send(ctx, "", data)
}

// shouldSend suppresses repeats of the same notification key inside the
// dedup window. An empty key always sends.
func (n *ntfyService) shouldSend(key string) bool {
	if key == "" || n.dedupWindow <= 0 {
		return true
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	now := time.Now()
	if last, ok := n.lastSent[key]; ok && now.Sub(last) < n.dedupWindow {
		return false
	}
	n.lastSent[key] = now
	return true
}

func (n *ntfyService) send(ctx context.Context, key string, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}
	if !n.shouldSend(key) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}
	if d == 0 {
		return "0s"
	}
	return d.String()
}

type noopService struct{}

func (noopService) NotifyWorkComplete(context.Context, string, time.Duration) error { return nil }
func (noopService) NotifyBreakComplete(context.Context, string) error               { return nil }
func (noopService) NotifySessionComplete(context.Context, string, int64) error      { return nil }
func (noopService) NotifyError(context.Context, error, string) error                { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
