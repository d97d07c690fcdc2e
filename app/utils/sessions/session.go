package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "marketplace-session"

	userIDSessionKey = "userID"
	cartIDSessionKey = "cartID"
)

// SessionStore keeps the session-scoped identifiers: the logged-in user and
// the cart id that keys the per-session cart aggregate.
type SessionStore interface {
	GetUserID(r *http.Request) string
	SetUserID(w http.ResponseWriter, r *http.Request, userID string) error
	ClearUserID(w http.ResponseWriter, r *http.Request) error

	// GetOrCreateCartID mints a cart id into the session on first use.
	GetOrCreateCartID(w http.ResponseWriter, r *http.Request) (string, error)
	ClearCartID(w http.ResponseWriter, r *http.Request) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) (*sessions.Session, error) {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Error getting session: %v", err)
	}
	return session, nil
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return ""
	}
	userID, ok := session.Values[userIDSessionKey].(string)
	if !ok {
		return ""
	}
	return userID
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values[userIDSessionKey] = userID
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearUserID(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	delete(session.Values, userIDSessionKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetOrCreateCartID(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return "", err
	}

	if cartID, ok := session.Values[cartIDSessionKey].(string); ok && cartID != "" {
		return cartID, nil
	}

	newCartID := uuid.New().String()
	session.Values[cartIDSessionKey] = newCartID
	if err := session.Save(r, w); err != nil {
		return "", err
	}

	return newCartID, nil
}

func (c *CookieSessionStore) ClearCartID(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	delete(session.Values, cartIDSessionKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
