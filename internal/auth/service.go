package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service is the auth gate: it authenticates credentials, resolves
// principals from tokens, and owns the token generator.
type Service struct {
	repo       RepositoryAPI
	tokenGen   TokenGeneratorAPI
	bcryptCost int
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokenGen:   tokenGen,
		bcryptCost: bcryptCost,
	}
}

// JWTTokenGenerator signs and verifies HS256 tokens with a single
// process-wide secret. The clock is injectable so expiry behavior is
// deterministic in tests.
type JWTTokenGenerator struct {
	Secret          []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	now             func() time.Time
}

func NewJWTTokenGenerator(secret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:          []byte(secret),
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
		now:             time.Now,
	}
}

// WithClock replaces the generator's clock. Test hook only.
func (j *JWTTokenGenerator) WithClock(now func() time.Time) *JWTTokenGenerator {
	j.now = now
	return j
}

// Authenticate validates credentials and returns access+refresh tokens.
// A lookup miss and a password mismatch both map to ErrInvalidCredentials
// so callers cannot tell registered emails apart from unknown ones.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	user, storedHash, err := s.repo.GetUserByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokenGen.GenerateAccessToken(user.ID)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGen.GenerateRefreshToken(user.ID)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// RefreshAccessToken mints a new access token for the subject of a
// valid refresh token. The refresh token itself is echoed back
// unchanged: there is no rotation and no expiry extension.
func (s *Service) RefreshAccessToken(refreshToken string) (AuthTokens, error) {
	userID, err := s.tokenGen.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	// the subject must still exist; a deleted account cannot refresh
	if _, err := s.repo.GetUserByID(userID); err != nil {
		return AuthTokens{}, ErrUserNotFound
	}

	accessToken, err := s.tokenGen.GenerateAccessToken(userID)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// ValidateAccessToken verifies the token and returns the subject user id.
func (s *Service) ValidateAccessToken(tokenString string) (int64, error) {
	return s.tokenGen.ValidateToken(tokenString)
}

// GetUserByID resolves the principal for a verified subject id.
func (s *Service) GetUserByID(userID int64) (*User, error) {
	u, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

func (j *JWTTokenGenerator) signedToken(userID int64, ttl time.Duration) (string, error) {
	now := j.now()
	subject := strconv.FormatInt(userID, 10)

	claims := &Claims{
		UserID: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// GenerateAccessToken creates a short-lived access token.
func (j *JWTTokenGenerator) GenerateAccessToken(userID int64) (string, error) {
	return j.signedToken(userID, j.AccessTokenTTL)
}

// GenerateRefreshToken creates a long-lived refresh token.
func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64) (string, error) {
	return j.signedToken(userID, j.RefreshTokenTTL)
}

// ValidateToken verifies signature and expiry and returns the subject id.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
