package sessions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gomodule/redigo/redis"

	. "polithane/pkg/common"
	"polithane/pkg/logger"
	"polithane/pkg/user"
)

const (
	redisNS = "polithaneSessions"

	sessionTTL   = 90 * 24 * time.Hour
	prolongBelow = 24 * time.Hour
)

type (
	sessionKey string

	// Pool hands out Redis connections; *redis.Pool satisfies it.
	Pool interface {
		Get() redis.Conn
	}

	SessionManager struct {
		secret []byte
		redis  Pool
		now    func() time.Time
	}

	jwtClaims struct {
		User user.User `json:"user"`
		jwt.StandardClaims
	}
)

const SessionKey sessionKey = "authenticatedUser"

var ErrNoAuth = errors.New("sessions: no session found")

func NewSessionManager(secret string, pool Pool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		redis:  pool,
		now:    time.Now,
	}
}

func userKey(userId string) string {
	return redisNS + ":" + userId
}

// Returns logged in user if the user from JWT token is valid
// and the session is valid.
func (sm *SessionManager) UserFromToken(ctx context.Context, authHeader string) (*user.User, error) {
	if authHeader == "" {
		return nil, errors.New("sessions: auth header not found")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sessions: unexpected signing method %v", token.Header["alg"])
			}
			return sm.secret, nil
		})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return nil, errors.New("sessions: can't cast token to claim")
	}
	if !token.Valid {
		return nil, errors.New("sessions: token is not valid")
	}

	if _, err := sm.CheckRedis(ctx, claims.User.Id, claims.Id); err != nil {
		return nil, fmt.Errorf("sessions: Redis session is not valid: %w", err)
	}

	return &claims.User, nil
}

// Goes through all user sessions and removes expired ones.
func (sm *SessionManager) CleanupUserSessions(ctx context.Context, userId string) error {
	conn := sm.redis.Get()
	defer conn.Close()

	sessions, err := redis.StringMap(conn.Do("HGETALL", userKey(userId)))
	if err != nil {
		return fmt.Errorf("sessions: can't HGETALL user sessions: %w", err)
	}

	nowTs := sm.now().Unix()
	for sessId, exp := range sessions {
		expTs, _ := strconv.ParseInt(exp, 10, 64)
		if nowTs > expTs {
			if _, err := conn.Do("HDEL", userKey(userId), sessId); err != nil {
				return fmt.Errorf("sessions: can't HDEL session %s: %w", sessId, err)
			}
			logger.Log(ctx).Infof("sessions: session %s removed (expired at %s)", sessId, exp)
		}
	}

	return nil
}

func (sm *SessionManager) CheckRedis(ctx context.Context, userId, sessionId string) (bool, error) {
	conn := sm.redis.Get()
	defer conn.Close()

	expirationData, err := redis.Bytes(conn.Do("HGET", userKey(userId), sessionId))
	if err != nil {
		return false, fmt.Errorf("sessions: can't HGET session: %w", err)
	}

	// Check user session for expiration
	expiredTs, _ := strconv.ParseInt(string(expirationData), 10, 64)
	nowTs := sm.now().Unix()
	if nowTs > expiredTs {
		return false, errors.New("sessions: session has been expired")
	}

	// Prolong the session if it expires in less than 24 hours
	// so active users are not logged out.
	if expiredTs-nowTs < int64(prolongBelow.Seconds()) {
		newExpDate := sm.now().Add(sessionTTL).Unix()
		if err := sm.AddToRedis(userId, sessionId, newExpDate); err != nil {
			return false, err
		}
		logger.Log(ctx).Debugf("sessions: session %s prolonged", sessionId)
	}

	return true, nil
}

func (sm *SessionManager) AddToRedis(userId, sessionId string, exp int64) error {
	conn := sm.redis.Get()
	defer conn.Close()

	if _, err := conn.Do("HSET", userKey(userId), sessionId, exp); err != nil {
		return fmt.Errorf("sessions: failed HSET to Redis: %w", err)
	}
	return nil
}

// RevokeSession removes a single session, e.g. on logout.
func (sm *SessionManager) RevokeSession(userId, sessionId string) error {
	conn := sm.redis.Get()
	defer conn.Close()

	if _, err := conn.Do("HDEL", userKey(userId), sessionId); err != nil {
		return fmt.Errorf("sessions: failed HDEL from Redis: %w", err)
	}
	return nil
}

func (sm *SessionManager) CreateToken(u *user.User) (string, error) {
	sessionID := RandStringRunes(10)
	now := sm.now()
	data := jwtClaims{
		User: *u,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(sessionTTL).Unix(),
			IssuedAt:  now.Unix(),
			Id:        sessionID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, data).SignedString(sm.secret)
	if err != nil {
		return "", err
	}

	if err := sm.AddToRedis(u.Id, sessionID, data.ExpiresAt); err != nil {
		return ``, err
	}

	return token, nil
}

func GetAuthUser(ctx context.Context) (*user.User, error) {
	u, ok := ctx.Value(SessionKey).(*user.User)
	if !ok || u == nil {
		return nil, ErrNoAuth
	}
	return u, nil
}

// WithAuthUser attaches an authenticated user to ctx.
func WithAuthUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, SessionKey, u)
}
