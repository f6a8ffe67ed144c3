package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// flashCookie holds a one-shot notice between a redirect and the next
// rendered page.
const flashCookie = "todo_flash"

// FlashCategory selects how a notice is presented.
type FlashCategory string

const (
	// FlashSuccess marks a confirmation notice.
	FlashSuccess FlashCategory = "success"
	// FlashDanger marks a warning or failure notice.
	FlashDanger FlashCategory = "danger"
)

// Flash is a one-shot user-visible notice.
type Flash struct {
	Message  string
	Category FlashCategory
}

// SetFlash queues a notice to be shown on the next rendered page.
func SetFlash(w http.ResponseWriter, message string, category FlashCategory) {
	value := base64.URLEncoding.EncodeToString([]byte(string(category) + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
	})
}

// PopFlash returns the pending notice, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil
	}
	return &Flash{Message: message, Category: FlashCategory(category)}
}
