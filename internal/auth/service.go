package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrUserRequired = errors.New("user_id required")
	ErrTokenInvalid = errors.New("token invalid")
)

// Service issues and checks stateless HS256 tokens. There is no user store:
// a token only names the user that owns the sessions it creates.
type Service struct {
	secret []byte
}

type Claims struct {
	UserID string `json:"user_id"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

func (s *Service) GenerateTokens(userID string) (TokenResponse, error) {
	if userID == "" {
		return TokenResponse{}, ErrUserRequired
	}
	access, err := s.signToken(userID, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(userID, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(token string) (string, error) {
	return s.validate(token, tokenTypeRefresh)
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	return s.validate(token, tokenTypeAccess)
}

func (s *Service) validate(token, typ string) (string, error) {
	claims, err := parseToken(token, s.secret)
	if err != nil {
		return "", err
	}
	if claims.Type != typ {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}

func (s *Service) signToken(userID, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

var parseClaimsFn = jwt.ParseWithClaims

func parseToken(token string, secret []byte) (*Claims, error) {
	parsed, err := parseClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
