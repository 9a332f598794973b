//go:build integration_test || all_tests

package auth

import (
	"testing"
	"time"

	pkgtesting "github.com/spartacus-fitness/backend/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionChecker_RealRedis(t *testing.T) {
	ctx, rdb := pkgtesting.GetRedisClientAndCtx(t)
	defer func() {
		require.NoError(t, rdb.Close())
	}()

	checker := NewSessionChecker(rdb)

	token := "integration-test-token"
	require.NoError(t, rdb.Set(ctx, sessionKeyPrefix+token, "42", time.Minute).Err())
	defer rdb.Del(ctx, sessionKeyPrefix+token)

	userID, err := checker.UserIDForToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	_, err = checker.UserIDForToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
