package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

const (
	sessionName = "liquorstock_session"

	userIDKey     = "user_id"
	oauthStateKey = "oauth_state"

	// rememberMaxAge keeps the session cookie for 30 days when the
	// user signs in with "remember".
	rememberMaxAge = 30 * 24 * 60 * 60
)

// Flash is a one-time status message carried across a redirect.
type Flash struct {
	Kind    string // "success", "error" or "warning"
	Message string
}

// SessionManager wraps a cookie store for login state and flash
// messages.
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

func (m *SessionManager) session(r *http.Request) *sessions.Session {
	// An undecodable cookie still yields a usable new session.
	s, _ := m.store.Get(r, sessionName)
	return s
}

// SignIn establishes an authenticated session for the user. With
// remember set the cookie persists for thirty days, otherwise it lasts
// until the browser closes.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string, remember bool) error {
	s := m.session(r)
	s.Values[userIDKey] = userID
	if remember {
		s.Options.MaxAge = rememberMaxAge
	} else {
		s.Options.MaxAge = 0
	}
	return s.Save(r, w)
}

// SignOut invalidates the session. Expiring the cookie discards the
// signed payload, so the next request starts from a fresh token.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	s := m.session(r)
	delete(s.Values, userIDKey)
	s.Options.MaxAge = -1
	if err := s.Save(r, w); err != nil {
		log.Errorf("Failed to invalidate session: %v", err)
	}
}

// CurrentUserID returns the signed-in user's ID, if any.
func (m *SessionManager) CurrentUserID(r *http.Request) (string, bool) {
	s := m.session(r)
	id, ok := s.Values[userIDKey].(string)
	return id, ok && id != ""
}

// Flash queues a one-time message for the next rendered page.
func (m *SessionManager) Flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	s := m.session(r)
	if s.Options.MaxAge < 0 {
		// A flash queued right after SignOut still has to survive one
		// redirect; the replacement cookie carries no login state.
		s.Options.MaxAge = 0
	}
	s.AddFlash(message, "flash_"+kind)
	if err := s.Save(r, w); err != nil {
		log.Errorf("Failed to save flash message: %v", err)
	}
}

// Flashes drains all queued messages.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.session(r)
	var out []Flash
	for _, kind := range []string{"success", "error", "warning"} {
		for _, v := range s.Flashes("flash_" + kind) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := s.Save(r, w); err != nil {
			log.Errorf("Failed to clear flash messages: %v", err)
		}
	}
	return out
}

// setOAuthState stores the anti-forgery state for the login round trip.
func (m *SessionManager) setOAuthState(w http.ResponseWriter, r *http.Request, state string) error {
	s := m.session(r)
	s.Values[oauthStateKey] = state
	return s.Save(r, w)
}

// takeOAuthState returns and clears the stored state.
func (m *SessionManager) takeOAuthState(w http.ResponseWriter, r *http.Request) string {
	s := m.session(r)
	state, _ := s.Values[oauthStateKey].(string)
	delete(s.Values, oauthStateKey)
	if err := s.Save(r, w); err != nil {
		log.Errorf("Failed to clear oauth state: %v", err)
	}
	return state
}
