package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	usersdomain "github.com/minimarket/go-gin-shop-server/internal/domains/users/domain"
)

// ErrUnauthenticated signals a missing, malformed, or expired credential.
var ErrUnauthenticated = errors.New("credential is missing or invalid")

// Principal is the resolved caller identity the core trusts.
type Principal struct {
	UserID          int64
	Email           string
	Role            usersdomain.Role
	CanRefundOrders bool
}

// HasRole reports role membership.
func (p Principal) HasRole(role usersdomain.Role) bool {
	return p.Role == role
}

type claims struct {
	jwt.RegisteredClaims
	Email           string `json:"email"`
	Role            string `json:"role"`
	CanRefundOrders bool   `json:"can_refund_orders,omitempty"`
}

// Config carries the signing parameters, provided at process start.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TokenTTL time.Duration
}

// Manager issues and resolves HMAC-signed bearer tokens.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Manager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Issue signs a token carrying the user's identity and role. Admins also
// get the refund capability claim.
func (m *Manager) Issue(userID int64, email string, role usersdomain.Role) (string, error) {
	now := m.now().UTC()
	body := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email:           email,
		Role:            string(role),
		CanRefundOrders: role == usersdomain.RoleAdmin,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, body).SignedString(m.secret)
}

// ResolveCaller verifies a presented token and returns the principal it
// identifies, or ErrUnauthenticated.
func (m *Manager) ResolveCaller(token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrUnauthenticated
	}
	var body claims
	parsed, err := jwt.ParseWithClaims(token, &body, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	if err != nil || !parsed.Valid {
		return Principal{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	userID, err := strconv.ParseInt(body.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Principal{}, fmt.Errorf("%w: malformed subject", ErrUnauthenticated)
	}
	return Principal{
		UserID:          userID,
		Email:           body.Email,
		Role:            usersdomain.Role(body.Role),
		CanRefundOrders: body.CanRefundOrders,
	}, nil
}

func (m *Manager) keyFunc(*jwt.Token) (any, error) {
	return m.secret, nil
}
