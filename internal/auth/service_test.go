package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fitstack/liftlog/pkg"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usersRepoStub struct {
	users map[string]*User
}

func (r *usersRepoStub) GetByUsername(_ context.Context, username string) (*User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func newTestService(t *testing.T, redisMockSetup func(redismock.ClientMock)) *Service {
	t.Helper()

	passwordHash, err := pkg.HashPassword("s3cret")
	require.NoError(t, err)

	repo := &usersRepoStub{
		users: map[string]*User{
			"mia": {ID: 7, Username: "mia", PasswordHash: passwordHash},
		},
	}

	redisClient, redisMock := redismock.NewClientMock()
	if redisMockSetup != nil {
		redisMockSetup(redisMock)
	}

	service := NewService(repo, DefaultTTL, redisClient)
	service.RandStringFunc = func(int) (string, error) {
		return "test-token", nil
	}
	return service
}

func TestService_Login(t *testing.T) {
	now := time.Now()
	service := newTestService(t, func(m redismock.ClientMock) {
		m.
			ExpectSet(
				sessionKeyPrefix+"test-token",
				fmt.Sprintf("7||%d", now.Unix()),
				0,
			).
			SetVal("OK")
		m.ExpectSAdd(tokensSetKey, "test-token").SetVal(1)
	})

	token, userID, err := service.Login(context.Background(), "mia", "s3cret", now)
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)
	assert.Equal(t, 7, userID)
}

func TestService_Login_WrongPassword(t *testing.T) {
	service := newTestService(t, nil)

	_, _, err := service.Login(context.Background(), "mia", "not-the-password", time.Now())
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownUser(t *testing.T) {
	service := newTestService(t, nil)

	_, _, err := service.Login(context.Background(), "ghost", "whatever", time.Now())
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Logout(t *testing.T) {
	service := newTestService(t, func(m redismock.ClientMock) {
		m.ExpectGet(sessionKeyPrefix + "test-token").SetVal("7||123456")
		m.ExpectDel(sessionKeyPrefix + "test-token").SetVal(1)
		m.ExpectSRem(tokensSetKey, "test-token").SetVal(1)
	})

	loggedOut, err := service.Logout(context.Background(), "test-token")
	require.NoError(t, err)
	assert.True(t, loggedOut)
}
