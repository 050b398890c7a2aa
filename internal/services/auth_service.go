package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gemlight/internal/domain"
	"gemlight/internal/repos"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailTaken = errors.New("email already registered")
	ErrBadToken   = errors.New("invalid or expired token")
)

const tokenLifetime = 24 * time.Hour

var signingMethod = jwt.SigningMethodHS256

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret)}
}

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a USER account and returns a bearer token.
func (s *AuthService) Register(sid, email, name, password string) (*domain.User, string, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if err != sql.ErrNoRows {
		return nil, "", err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, "", err
	}
	u := &domain.User{ID: uuid.NewString(), Email: email, Name: name, Hash: string(h), Role: "USER"}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}
	return s.finishLogin(sid, u)
}

// Login verifies credentials, links the anonymous session to the user (so
// pre-login orders show in history) and returns a bearer token.
func (s *AuthService) Login(sid, email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	return s.finishLogin(sid, u)
}

func (s *AuthService) finishLogin(sid string, u *domain.User) (*domain.User, string, error) {
	if sid != "" {
		if err := s.Users.BindSession(sid, u.ID); err != nil {
			return nil, "", err
		}
	}
	tok, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) issueToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := authClaims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			Issuer:    "gemlight",
		},
	}
	return jwt.NewWithClaims(signingMethod, claims).SignedString(s.Secret)
}

// UserFromToken resolves a bearer token to its user, or ErrBadToken.
func (s *AuthService) UserFromToken(raw string) (*domain.User, error) {
	tok, err := jwt.ParseWithClaims(raw, &authClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != signingMethod {
			return nil, ErrBadToken
		}
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrBadToken
	}
	claims, ok := tok.Claims.(*authClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrBadToken
	}
	u, err := s.Users.ByID(claims.Subject)
	if err != nil {
		return nil, ErrBadToken
	}
	return u, nil
}
