package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"Postdeck/internal/core/posts"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Auth errors
var (
	// ErrInvalidCredentials is returned when the username is unknown or the password is wrong
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when an access token fails verification
	ErrInvalidToken = errors.New("invalid or expired token")
)

type userRecord struct {
	profile posts.AuthUser
	hash    []byte
}

// Users is the credential store of the collection server
type Users struct {
	byName map[string]userRecord
	cost   int
	mu     sync.RWMutex
}

// NewUsers creates an empty credential store hashing with the given bcrypt cost.
// A cost of 0 uses bcrypt.DefaultCost.
func NewUsers(cost int) *Users {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Users{
		byName: make(map[string]userRecord),
		cost:   cost,
	}
}

// Add registers a user. The AccessToken of profile is ignored.
func (u *Users) Add(profile posts.AuthUser, password string) error {
	if profile.Username == "" || password == "" {
		return posts.NewValidationError("username", "username and password are required")
	}
	if profile.ID <= 0 {
		return posts.NewValidationError("id", "user id must be positive")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	profile.AccessToken = ""

	u.mu.Lock()
	defer u.mu.Unlock()
	u.byName[profile.Username] = userRecord{profile: profile, hash: hash}
	return nil
}

// Authenticate checks credentials and returns the user's profile
func (u *Users) Authenticate(username, password string) (posts.AuthUser, error) {
	u.mu.RLock()
	rec, ok := u.byName[username]
	u.mu.RUnlock()

	if !ok {
		return posts.AuthUser{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.hash, []byte(password)); err != nil {
		return posts.AuthUser{}, ErrInvalidCredentials
	}
	return rec.profile, nil
}

// Tokens issues and verifies HS256 access tokens
type Tokens struct {
	now    func() time.Time
	issuer string
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token issuer
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{
		now:    time.Now,
		issuer: "postdeck",
		secret: secret,
		ttl:    ttl,
	}
}

// Issue creates an access token for userID
func (t *Tokens) Issue(userID int) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns the user id
func (t *Tokens) Verify(token string) (int, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return userID, nil
}

// AuthService logs users in
type AuthService struct {
	users  *Users
	tokens *Tokens
	logger *slog.Logger
}

// NewAuthService creates an auth service. logger may be nil.
func NewAuthService(users *Users, tokens *Tokens, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Login checks credentials and returns the profile with a fresh access token
func (a *AuthService) Login(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error) {
	user, err := a.users.Authenticate(creds.Username, creds.Password)
	if err != nil {
		a.logger.Warn("[AUTH] login rejected", "username", creds.Username)
		return nil, err
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	user.AccessToken = token

	a.logger.Info("[AUTH] login", "username", user.Username, "user_id", user.ID)
	return &user, nil
}
