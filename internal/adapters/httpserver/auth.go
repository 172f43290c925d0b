package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/phenrril/possync/internal/domain"
)

const (
	issuer        = "possync"
	tokenAccess   = "access"
	tokenRefresh  = "refresh"
	revokedMaxLen = 8192
)

type AuthConfig struct {
	Username     string
	PasswordHash string
	Secret       []byte
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Auth issues sessions for the single POS operator account. Refresh tokens
// are single use; spent and logged out ids are remembered until they expire.
type Auth struct {
	cfg AuthConfig
	now func() time.Time

	mu      sync.Mutex
	revoked *expirable.LRU[string, struct{}]
}

func NewAuth(cfg AuthConfig) *Auth {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Auth{
		cfg:     cfg,
		revoked: expirable.NewLRU[string, struct{}](revokedMaxLen, nil, cfg.RefreshTTL),
		now:     time.Now,
	}
}

func (a *Auth) Login(username, password string) (TokenPair, error) {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(a.cfg.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(a.cfg.PasswordHash), []byte(password))
	if !userOK || passErr != nil {
		return TokenPair{}, fmt.Errorf("%w: bad credentials", domain.ErrUnauthorized)
	}
	return a.issue(a.cfg.Username)
}

// Refresh spends a refresh token and issues a new pair.
func (a *Auth) Refresh(refresh string) (TokenPair, error) {
	c, err := a.parse(refresh, tokenRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	if err := a.spend(c.ID); err != nil {
		return TokenPair{}, err
	}
	return a.issue(c.Subject)
}

func (a *Auth) Logout(refresh string) error {
	c, err := a.parse(refresh, tokenRefresh)
	if err != nil {
		return err
	}
	return a.spend(c.ID)
}

// spend revokes a refresh token id, failing if it was already revoked.
func (a *Auth) spend(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id == "" || a.revoked.Contains(id) {
		return fmt.Errorf("%w: refresh token already used", domain.ErrUnauthorized)
	}
	a.revoked.Add(id, struct{}{})
	return nil
}

func (a *Auth) Verify(access string) (*Claims, error) {
	return a.parse(access, tokenAccess)
}

func (a *Auth) issue(subject string) (TokenPair, error) {
	now := a.now()
	access, accessExp, err := a.sign(subject, tokenAccess, now, a.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := a.sign(subject, tokenRefresh, now, a.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: accessExp}, nil
}

func (a *Auth) sign(subject, typ string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return tok, exp, nil
}

func (a *Auth) parse(raw, typ string) (*Claims, error) {
	c := &Claims{}
	_, err := jwt.ParseWithClaims(raw, c, func(*jwt.Token) (any, error) { return a.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if c.Type != typ {
		return nil, fmt.Errorf("%w: expected %s token", domain.ErrUnauthorized, typ)
	}
	return c, nil
}

type subjectKey struct{}

// Require rejects requests without a valid bearer access token.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
			return
		}
		c, err := a.Verify(strings.TrimSpace(raw))
		if err != nil {
			log.Debug().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("rejected access token")
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey{}, c.Subject)))
	})
}

func SubjectFrom(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		s.fail(w, r, fmt.Errorf("%w: username and password are required", domain.ErrValidation))
		return
	}
	pair, err := s.Auth.Login(req.Username, req.Password)
	if err != nil {
		log.Warn().Str("username", req.Username).Str("ip", clientIP(r)).Msg("failed login")
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	pair, err := s.Auth.Refresh(req.RefreshToken)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Auth.Logout(req.RefreshToken); err != nil && !errors.Is(err, domain.ErrUnauthorized) {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
