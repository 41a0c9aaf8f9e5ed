package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gridclash/arena-api/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput() RegisterInput {
	return RegisterInput{
		Username: gofakeit.Username(),
		Password: "correct-horse-battery",
		Email:    gofakeit.Email(),
		Phone:    fmt.Sprintf("9%09d", gofakeit.Number(0, 999999999)),
		GameID:   gofakeit.Gamertag(),
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := NewAuthService(storetest.New())

	input := registerInput()
	input.Password = "short"

	_, err := svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterRejectsEmptyUsername(t *testing.T) {
	svc := NewAuthService(storetest.New())

	input := registerInput()
	input.Username = ""

	_, err := svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestRegisterRejectsBadContactDetails(t *testing.T) {
	svc := NewAuthService(storetest.New())

	bad := registerInput()
	bad.Email = "not-an-email"
	_, err := svc.Register(context.Background(), bad)
	require.ErrorIs(t, err, ErrInvalidEmail)

	bad = registerInput()
	bad.Phone = "12345"
	_, err = svc.Register(context.Background(), bad)
	require.ErrorIs(t, err, ErrInvalidPhone)
}

func TestRegisterDuplicateFields(t *testing.T) {
	svc := NewAuthService(storetest.New())
	ctx := context.Background()

	first := registerInput()
	_, err := svc.Register(ctx, first)
	require.NoError(t, err)

	dup := registerInput()
	dup.Username = first.Username
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	dup = registerInput()
	dup.Email = first.Email
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	dup = registerInput()
	dup.Phone = first.Phone
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(storetest.New())
	ctx := context.Background()

	input := registerInput()
	created, err := svc.Register(ctx, input)
	require.NoError(t, err)

	user, err := svc.Login(ctx, LoginInput{Username: input.Username, Password: input.Password})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Empty(t, user.PasswordHash, "login response must not carry the hash")

	_, err = svc.Login(ctx, LoginInput{Username: input.Username, Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: input.Password})
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown user and wrong password must be indistinguishable")
}
