package interfaces

//go:generate mockgen -package=mock -source=notifier.go -destination=mock/notifier.go

// Notification is one alert rendered to the OS shell.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
}

// Notifier renders notifications and routes activation back to a browsing
// context.
type Notifier interface {
	// Show renders the notification.
	Show(n Notification) error
}

// URLOpener brings a browsing context to a target URL when the user
// activates a notification.
type URLOpener interface {
	Open(url string) error
}
