package services

import (
	"database/sql"
	"errors"

	"simplestore/internal/domain"
	"simplestore/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken    = errors.New("username already exists")
	ErrPasswordMismatch = errors.New("password and confirmation do not match")
	ErrNoSuchUser       = errors.New("user does not exist")
	ErrBadPassword      = errors.New("invalid password")
)

type AuthService struct {
	Users *repos.UserRepo
}

// Signup creates the account and its empty cart atomically. The user id is
// generated up front so the cart row always carries a valid owner.
func (s *AuthService) Signup(username, password, confirmation string) (*domain.User, error) {
	if _, err := s.Users.ByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}
	if password != confirmation {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{ID: uuid.NewString(), Username: username, Hash: string(hash)}
	if err := s.Users.Create(u, uuid.NewString()); err != nil {
		return nil, err
	}
	return u, nil
}

// Signin verifies credentials and binds the user (id and username) to the
// session. The two failure modes are distinct on purpose: the storefront
// tells the visitor whether the username exists.
func (s *AuthService) Signin(sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err == sql.ErrNoRows {
		return nil, ErrNoSuchUser
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadPassword
	}
	if err := s.Users.BindSession(sid, u.ID, u.Username); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Signout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// DeleteAccount removes the user and cascades to their products, cart and
// sessions.
func (s *AuthService) DeleteAccount(userID string) error {
	return s.Users.DeleteCascade(userID)
}
