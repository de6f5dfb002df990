package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"taskboard/internal/model"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// ErrInvalidSession is returned for tokens that fail signature or claim checks.
var ErrInvalidSession = errors.New("invalid session")

// Claims is the signed session payload. Sessions carry no expiry.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionService signs and verifies session tokens.
type SessionService struct {
	secret []byte
	now    func() time.Time
}

// NewSessionService creates a session service with the given HMAC secret.
func NewSessionService(secret string) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs a session token for the identity and returns it with its id.
func (s *SessionService) Issue(id *Identity) (tokenID string, token string, err error) {
	tokenID = uuid.New().String()
	claims := &Claims{
		UserID:   id.UserID,
		Username: id.Username,
		Role:     string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       tokenID,
			Subject:  id.Username,
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return tokenID, token, err
}

// Parse validates a session token and returns its claims.
func (s *SessionService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" || claims.Username == "" {
		return nil, ErrInvalidSession
	}
	if !model.Role(claims.Role).Valid() {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Identity rebuilds the request identity from verified claims.
func (c *Claims) Identity() *Identity {
	return &Identity{
		UserID:   c.UserID,
		Username: c.Username,
		Role:     model.Role(c.Role),
	}
}
