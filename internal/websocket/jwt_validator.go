package websocket

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrNotOwner is returned when a valid token belongs to someone other than the owner
var ErrNotOwner = errors.New("token subject is not the owner")

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct{}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// TokenValidator checks a bearer token and returns its subject
type TokenValidator interface {
	ValidateToken(token string) (subject string, err error)
}

// Auth0JWTValidator validates Auth0 JWT tokens for WebSocket connections
type Auth0JWTValidator struct {
	validator    *validator.Validator
	ownerSubject string
}

// NewAuth0JWTValidator creates a new Auth0JWTValidator. When ownerSubject is
// set, only tokens issued to that subject are accepted.
func NewAuth0JWTValidator(domain, audience, ownerSubject string) (*Auth0JWTValidator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &Auth0JWTValidator{
		validator:    jwtValidator,
		ownerSubject: ownerSubject,
	}, nil
}

// ValidateToken validates a JWT token and returns its subject
func (v *Auth0JWTValidator) ValidateToken(token string) (string, error) {
	claims, err := v.validator.ValidateToken(context.Background(), token)
	if err != nil {
		return "", ErrInvalidToken
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	subject := validatedClaims.RegisteredClaims.Subject
	if v.ownerSubject != "" && subject != v.ownerSubject {
		return "", ErrNotOwner
	}
	return subject, nil
}
