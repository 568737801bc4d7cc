package httpserver

// IntentRequest carries one presentation intent into the sync controller.
type IntentRequest struct {
	Symbol    string `json:"symbol,omitempty"`
	Tab       string `json:"tab,omitempty"`
	Filter    string `json:"filter,omitempty"`
	Text      string `json:"text,omitempty"`
	Immediate bool   `json:"immediate,omitempty"` // explicit confirmation key, bypasses debounce
	Visible   *bool  `json:"visible,omitempty"`
}

// IntentResponse acknowledges an intent.
type IntentResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
