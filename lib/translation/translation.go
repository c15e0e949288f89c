package translation

import (
	"github.com/leonelquinteros/gotext"
)

func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return "en"
	}

	return lang
}

// Translate resolves a user-facing string; unknown ids fall back to
// the id itself.
func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
