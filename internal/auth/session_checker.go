package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// session keys are written by the external login system;
// this core only reads them
const sessionKeyPrefix = "spartacus-session||"

// SessionChecker resolves an opaque session token to the user id it belongs
// to. Session lifetime is enforced by the redis key TTL set at login time.
type SessionChecker struct {
	redisClient *redis.Client
}

func NewSessionChecker(redisClient *redis.Client) *SessionChecker {
	return &SessionChecker{
		redisClient: redisClient,
	}
}

func (c *SessionChecker) UserIDForToken(ctx context.Context, token string) (int, error) {
	if token == "" {
		return 0, ErrUnauthenticated
	}

	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return 0, ErrUnauthenticated
		}
		return 0, fmt.Errorf("get session: %w", err)
	}

	userID, err := strconv.Atoi(cmd.Val())
	if err != nil {
		return 0, fmt.Errorf("malformed session value [%s]: %w", cmd.Val(), err)
	}

	return userID, nil
}
