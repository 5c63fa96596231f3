package websocket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuth0JWTValidator_Implements_TokenValidator(t *testing.T) {
	var _ TokenValidator = (*Auth0JWTValidator)(nil)
}

func TestValidatorErrors(t *testing.T) {
	assert.Equal(t, "invalid token", ErrInvalidToken.Error())
	assert.Equal(t, "token subject is not the owner", ErrNotOwner.Error())
}

func TestCustomClaims_Validate(t *testing.T) {
	claims := &CustomClaims{}
	assert.NoError(t, claims.Validate(nil))
}

func TestNewAuth0JWTValidator_Success(t *testing.T) {
	validator, err := NewAuth0JWTValidator("test.auth0.com", "https://api.tally.app", "auth0|owner")
	assert.NoError(t, err)
	assert.NotNil(t, validator)
	assert.NotNil(t, validator.validator)
	assert.Equal(t, "auth0|owner", validator.ownerSubject)
}

func TestAuth0JWTValidator_ValidateToken_InvalidJWT(t *testing.T) {
	validator, err := NewAuth0JWTValidator("test.auth0.com", "https://api.tally.app", "")
	assert.NoError(t, err)

	subject, err := validator.ValidateToken("invalid-token")
	assert.Error(t, err)
	assert.Empty(t, subject)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
