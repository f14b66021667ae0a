package controller

import (
	"net/http"
	"net/url"
	"strings"

	"orgadmin/internal/views"
)

const FlashCookie = "orgadmin_flash"

// setFlash stores a notice to be shown on the next page load.
func setFlash(w http.ResponseWriter, kind views.NoticeKind, text string) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    url.QueryEscape(string(kind) + ":" + text),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending notice, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) *views.Notice {
	cookie, err := r.Cookie(FlashCookie)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}

	kind, text, ok := strings.Cut(value, ":")
	if !ok || text == "" {
		return nil
	}
	switch views.NoticeKind(kind) {
	case views.NoticeSuccess, views.NoticeError:
		return &views.Notice{Kind: views.NoticeKind(kind), Text: text}
	default:
		return nil
	}
}
