package imagery

// NoticeLevel is the severity of a user-visible notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient user-visible message, e.g. "search on EOS timed out after 20s".
// Provider is empty for notices about the search as a whole.
type Notice struct {
	Provider ProviderID  `json:"provider,omitempty"`
	Level    NoticeLevel `json:"level"`
	Message  string      `json:"message"`
}

// NewNotice builds a notice for a provider.
func NewNotice(provider ProviderID, level NoticeLevel, message string) Notice {
	return Notice{Provider: provider, Level: level, Message: message}
}
