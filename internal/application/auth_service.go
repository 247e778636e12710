package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

const sessionTTL = 24 * time.Hour

type TokenPair struct {
	AccessToken        string    `json:"access_token"`
	AccessTokenExpiry  time.Time `json:"access_token_expiry"`
	RefreshToken       string    `json:"refresh_token"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expiry"`
}

// RequestMeta describes the client behind an auth request, for the audit log.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type SigninInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	User   UserDTO   `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

type AuthService struct {
	Users  *UserService
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Audit  repo.AuditRepository
	Logger *logrus.Logger
}

func NewAuthService(users *UserService, jwt *helpers.JWTManager, rdb *redis.Client, audit repo.AuditRepository, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Redis: rdb, Audit: audit, Logger: helpers.OrNop(logger)}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func identityOf(u *entity.User) helpers.Identity {
	return helpers.Identity{UserID: u.ID, Role: string(u.Role), Email: u.Email, Username: u.Username}
}

// Signup registers a plain user and signs them in.
func (s *AuthService) Signup(ctx context.Context, in CreateUserInput, meta RequestMeta) (*AuthResult, error) {
	in.Role = entity.RoleUser
	u, err := s.Users.create(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.Users.Notifier != nil {
		if nErr := s.Users.Notifier.SendWelcome(ctx, u.Email, u.FullName()); nErr != nil {
			s.Logger.WithError(nErr).WithField("user_id", u.ID).Warn("welcome email failed")
		}
	}
	s.audit(ctx, u, "signup", meta, nil)
	return s.issue(ctx, u)
}

// Signin accepts either the email or the username as login.
func (s *AuthService) Signin(ctx context.Context, in SigninInput, meta RequestMeta) (*AuthResult, error) {
	login := strings.TrimSpace(in.Login)
	var (
		u   *entity.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.Users.Repo.GetByEmail(ctx, normalizeEmail(login))
	} else {
		u, err = s.Users.Repo.GetByUsername(ctx, login)
	}
	if err != nil || !helpers.CheckPassword(u.Password, in.Password) {
		s.audit(ctx, u, "signin_failed", meta, map[string]any{"login": login})
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err := s.Users.TouchLastLogin(ctx, u.ID); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("touch last login failed")
	}
	s.audit(ctx, u, "signin", meta, nil)
	return s.issue(ctx, u)
}

func (s *AuthService) issue(ctx context.Context, u *entity.User) (*AuthResult, error) {
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: toUserDTO(u), Tokens: pair}, nil
}

// IssueTokens generates access/refresh tokens and records the session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.sign(u, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		return TokenPair{}, apperror.Internal(err, "generate tokens")
	}
	s.storeSession(ctx, u.ID, map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"role":       string(u.Role),
		"sid":        sid,
		"created_at": nowRFC3339(),
	})
	return pair, nil
}

func (s *AuthService) sign(u *entity.User, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(identityOf(u), sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AuthService) storeSession(ctx context.Context, userID string, fields map[string]any) {
	if s.Redis == nil {
		return
	}
	key := helpers.SessionKey(userID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

// Refresh validates the refresh token against the live session and rotates both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, apperror.Unauthorized("invalid refresh token")
	}
	u, err := s.Users.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, apperror.Unauthorized("invalid refresh token")
	}
	if s.Redis != nil {
		sid, rErr := s.Redis.HGet(ctx, helpers.SessionKey(u.ID), "sid").Result()
		if rErr != nil || sid != claims.SessionID {
			return TokenPair{}, apperror.Unauthorized("session expired")
		}
	}
	sid := uuid.NewString()
	pair, err := s.sign(u, sid)
	if err != nil {
		return TokenPair{}, apperror.Internal(err, "generate tokens")
	}
	s.storeSession(ctx, u.ID, map[string]any{"sid": sid, "updated_at": nowRFC3339()})
	return pair, nil
}

// Logout drops the session so outstanding refresh tokens stop working.
func (s *AuthService) Logout(ctx context.Context, userID string, meta RequestMeta) error {
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, helpers.SessionKey(userID)).Err(); err != nil {
			return apperror.Internal(err, "drop session")
		}
	}
	s.audit(ctx, &entity.User{ID: userID}, "logout", meta, nil)
	return nil
}

// SessionActive reports whether sid is the user's current session. Without Redis every session is live.
func (s *AuthService) SessionActive(ctx context.Context, userID, sid string) bool {
	if s.Redis == nil {
		return true
	}
	cur, err := s.Redis.HGet(ctx, helpers.SessionKey(userID), "sid").Result()
	return err == nil && cur == sid
}

func (s *AuthService) audit(ctx context.Context, u *entity.User, action string, meta RequestMeta, extra map[string]any) {
	if s.Audit == nil {
		return
	}
	ev := entity.AuditEvent{Action: action, IP: meta.IP, UserAgent: meta.UserAgent, Metadata: extra}
	if u != nil {
		ev.UserID, ev.Email = u.ID, u.Email
	}
	if err := s.Audit.Record(ctx, ev); err != nil {
		s.Logger.WithError(err).WithField("action", action).Warn("audit record failed")
	}
}
