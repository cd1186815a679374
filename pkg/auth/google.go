package auth

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauthapi "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

var errStateMismatch = errors.New("oauth state mismatch")

// Handler implements the Google login round trip: redirect out, handle
// the callback, resolve a local user and establish the session.
type Handler struct {
	oauth    *oauth2.Config
	db       *gorm.DB
	sessions *SessionManager
}

func NewHandler(clientID, clientSecret, redirectURL string, db *gorm.DB, sessions *SessionManager) *Handler {
	return &Handler{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				oauthapi.UserinfoEmailScope,
				oauthapi.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
		db:       db,
		sessions: sessions,
	}
}

// Redirect sends the user to Google's consent page.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	if err := h.sessions.setOAuthState(w, r, state); err != nil {
		log.Errorf("Failed to store oauth state: %v", err)
		h.sessions.Flash(w, r, "error", "Login with Google failed due to an issue. Please try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusSeeOther)
}

// Callback exchanges the authorization code, fetches the Google
// profile, resolves the local user and signs them in. Every failure
// collapses into one generic flash; the detail only goes to the log.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	user, err := h.handleCallback(w, r)
	if err != nil {
		log.Errorf("Google login callback error: %v\n%s", err, debug.Stack())
		h.sessions.Flash(w, r, "error", "Login with Google failed due to an issue. Please try again or contact support if the problem persists.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.sessions.SignIn(w, r, user.ID, true); err != nil {
		log.Errorf("Failed to establish session: %v", err)
		h.sessions.Flash(w, r, "error", "Login with Google failed due to an issue. Please try again or contact support if the problem persists.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/liquor", http.StatusSeeOther)
}

func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) (*User, error) {
	ctx := r.Context()

	wantState := h.sessions.takeOAuthState(w, r)
	if wantState == "" || r.URL.Query().Get("state") != wantState {
		return nil, errStateMismatch
	}

	token, err := h.oauth.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		return nil, err
	}

	svc, err := oauthapi.NewService(ctx, option.WithTokenSource(h.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return ResolveGoogleUser(h.db, GoogleProfile{
		ID:     info.Id,
		Name:   info.Name,
		Email:  info.Email,
		Avatar: info.Picture,
	})
}

// Logout invalidates the session and sends the user home.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(w, r)
	h.sessions.Flash(w, r, "success", "You have been logged out successfully.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
