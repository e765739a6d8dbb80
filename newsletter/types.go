// Package newsletter manages the subscriber list and the publish fan-out.
//
// Presence of a record in the store is the whole subscription state: there
// is no pending-confirmation step. Subscribe is an upsert and unsubscribe a
// delete, so both are idempotent.
package newsletter

import (
	"time"

	"golang.org/x/text/language"
)

// KeyPrefix namespaces subscriber records in the key-value store.
const KeyPrefix = "sub:"

// Subscriber is a stored newsletter recipient, keyed by normalized email.
type Subscriber struct {
	Email        string    `json:"email"`
	Lang         string    `json:"lang"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// PublishRequest is the body of POST /api/newsletter/publish.
type PublishRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
	Lang    string `json:"lang"`
}

// The site ships in Persian with an English translation; anything else maps
// to the default.
var supportedLangs = language.NewMatcher([]language.Tag{
	language.Persian, // fa, the default
	language.English, // en
})

// NormalizeLang maps an arbitrary client-sent language string onto a
// supported tag. Unknown or empty input falls back to Persian.
func NormalizeLang(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return "fa"
	}
	_, idx, conf := supportedLangs.Match(tag)
	if conf == language.No {
		return "fa"
	}
	if idx == 1 {
		return "en"
	}
	return "fa"
}
