package portal

import (
	"encoding/json"
	"errors"

	"github.com/trezcool/edutrack/core/user"
)

// Pages a portal navigates between.
const (
	PageIndex   Page = "index.html"
	PageStudent Page = "student.html"
	PageTeacher Page = "teacher.html"
	PageRoot    Page = "/"
)

// fixed storage keys
const (
	KeyUser  = "user"
	KeyToken = "token"
)

var (
	// errors
	ErrKeyNotFound     = errors.New("key not found")
	ErrUnauthenticated = errors.New("no session")
	ErrRoleMismatch    = errors.New("session role does not match the portal")
)

type (
	Page string

	// Navigator performs a full navigation away from the current page.
	Navigator interface {
		Redirect(page Page)
	}

	// Confirmer asks the user a yes/no question.
	Confirmer interface {
		Confirm(prompt string) bool
	}

	// Store is the client's persistent key-value storage.
	Store interface {
		Get(key string) (string, error)
		Set(key, value string) error
		Remove(key string) error
	}

	// Session is the client-held proof of authentication.
	Session struct {
		User  user.User
		Token string
	}
)

// PageFor is the dashboard page of the role.
func PageFor(role user.Role) Page {
	switch role {
	case user.RoleTeacher:
		return PageTeacher
	case user.RoleStudent:
		return PageStudent
	}
	return PageIndex
}

func SaveSession(store Store, sess Session) error {
	data, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	if err = store.Set(KeyToken, sess.Token); err != nil {
		return err
	}
	return store.Set(KeyUser, string(data))
}

// LoadSession reads the stored Session; it fails with ErrUnauthenticated when either part is missing.
func LoadSession(store Store) (Session, error) {
	token, err := store.Get(KeyToken)
	if err != nil || token == "" {
		return Session{}, ErrUnauthenticated
	}
	data, err := store.Get(KeyUser)
	if err != nil || data == "" {
		return Session{}, ErrUnauthenticated
	}
	var usr user.User
	if err = json.Unmarshal([]byte(data), &usr); err != nil {
		return Session{}, ErrUnauthenticated
	}
	return Session{User: usr, Token: token}, nil
}

// ClearSession removes both stored parts, even if removing one fails.
func ClearSession(store Store) error {
	errUsr := store.Remove(KeyUser)
	errTok := store.Remove(KeyToken)
	if errUsr != nil {
		return errUsr
	}
	return errTok
}

// Guard gates page entry: without a Session for the role it redirects to the entry page.
func Guard(store Store, role user.Role, nav Navigator) (Session, error) {
	sess, err := LoadSession(store)
	if err == nil && sess.User.Role != role {
		err = ErrRoleMismatch
	}
	if err != nil {
		nav.Redirect(PageIndex)
		return Session{}, err
	}
	return sess, nil
}
