package tenant

// Config describes one organization's bot behavior: its canned answers and
// where free-text messages should be routed.
type Config struct {
	QnA     map[string]string `json:"qna"`
	Routing Routing           `json:"routing"`
}

// Routing holds the optional per-tenant destination addresses.
type Routing struct {
	PrayerEmail string `json:"prayerEmail,omitempty"`
	OfficeEmail string `json:"officeEmail,omitempty"`
}

// Answer returns the canned answer for the given intent. The lookup is an
// exact, case-sensitive map match with no normalisation.
func (c *Config) Answer(intent string) (string, bool) {
	if c == nil || c.QnA == nil {
		return "", false
	}
	answer, ok := c.QnA[intent]
	return answer, ok
}
