package notify

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
)

// Defaults used when a push payload is absent or malformed.
const (
	defaultTitle = "OptionSense"
	defaultBody  = "Market update available"
	defaultIcon  = "/icon-192.png"
	defaultURL   = "/"
)

// Dispatcher delivers push-originated alerts: it renders a notification from
// the push payload and routes a user activation back to a browsing context
// at the notification's associated URL.
type Dispatcher struct {
	notifier interfaces.Notifier
	opener   interfaces.URLOpener
	logger   *zap.Logger
}

// NewDispatcher creates a push dispatcher
func NewDispatcher(notifier interfaces.Notifier, opener interfaces.URLOpener, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		opener:   opener,
		logger:   logger,
	}
}

// HandlePush renders a notification for a raw push payload. Absent or
// malformed payload fields fall back to fixed defaults; the push is never
// dropped for being unparseable.
func (d *Dispatcher) HandlePush(payload []byte) error {
	n := interfaces.Notification{
		Title: defaultTitle,
		Body:  defaultBody,
		Icon:  defaultIcon,
		URL:   defaultURL,
	}

	if len(payload) > 0 {
		var parsed interfaces.Notification
		if err := json.Unmarshal(payload, &parsed); err != nil {
			d.logger.Warn("Malformed push payload, using defaults", zap.Error(err))
		} else {
			if parsed.Title != "" {
				n.Title = parsed.Title
			}
			if parsed.Body != "" {
				n.Body = parsed.Body
			}
			if parsed.Icon != "" {
				n.Icon = parsed.Icon
			}
			if parsed.URL != "" {
				n.URL = parsed.URL
			}
		}
	}

	d.logger.Info("Showing notification",
		zap.String("title", n.Title),
		zap.String("url", n.URL))
	return d.notifier.Show(n)
}

// Activate handles a user click on a notification by opening its associated
// URL.
func (d *Dispatcher) Activate(n interfaces.Notification) error {
	url := n.URL
	if url == "" {
		url = defaultURL
	}
	return d.opener.Open(url)
}

// Ensure LogNotifier implements interfaces.Notifier
var _ interfaces.Notifier = (*LogNotifier)(nil)

// LogNotifier is the default notification surface: it writes the alert to
// the log. A desktop build can swap in an OS-shell notifier.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Show logs the notification.
func (l *LogNotifier) Show(n interfaces.Notification) error {
	l.logger.Info("NOTIFICATION",
		zap.String("title", n.Title),
		zap.String("body", n.Body),
		zap.String("url", n.URL))
	return nil
}

var _ interfaces.URLOpener = (*LogOpener)(nil)

// LogOpener is the default navigation surface for notification clicks.
type LogOpener struct {
	logger *zap.Logger
}

// NewLogOpener creates a log-backed opener
func NewLogOpener(logger *zap.Logger) *LogOpener {
	return &LogOpener{logger: logger}
}

// Open logs the navigation target.
func (l *LogOpener) Open(url string) error {
	l.logger.Info("OPEN", zap.String("url", url))
	return nil
}
