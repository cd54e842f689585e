package service

import (
	"errors"
	"time"

	"topichub/config"
	"topichub/dao"
	"topichub/internal/auth"
	"topichub/model"
	"topichub/utils"

	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrUserExists = errors.New("user already exists")

// UserService bundles the DAO, session storage and authentication helpers.
type UserService struct {
	dao     *dao.UserDAO
	Session *auth.SessionManager
}

func NewUserService(dao *dao.UserDAO, rdb *redis.Client) *UserService {
	return &UserService{
		dao:     dao,
		Session: auth.NewSessionManager(rdb),
	}
}

// Register persists a freshly created user after hashing the password.
// Agreement flags come in on the model and are stored as submitted.
func (s *UserService) Register(user *model.User) error {
	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	if err := s.dao.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Login handles email/password authentication and issues a token pair.
func (s *UserService) Login(email, password, device string) (string, string, error) {
	user, err := s.dao.FindByEmail(email)
	if err != nil || user.ID == 0 {
		return "", "", errors.New("invalid email or password")
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", "", errors.New("invalid email or password")
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, device)
	if err != nil {
		return "", "", err
	}

	ttl := time.Duration(config.GlobalConfig.JWT.RefreshExpire) * time.Second
	if err := s.Session.SaveRefreshToken(user.ID, device, refreshToken, ttl); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// RotateRefreshToken validates the refresh token, blacklists it and issues a
// new token pair.
func (s *UserService) RotateRefreshToken(refreshToken, headerDevice string) (string, string, error) {
	if refreshToken == "" {
		return "", "", errors.New("missing refresh token")
	}

	claims, err := auth.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("refresh token invalid")
	}

	// When the client sends X-Device it must match the token's claims.
	if headerDevice != "" && headerDevice != claims.Device {
		return "", "", errors.New("device mismatch")
	}

	stored, err := s.Session.GetRefreshToken(claims.UserID, claims.Device)
	if err != nil || stored != refreshToken {
		return "", "", errors.New("refresh token expired or rotated")
	}

	accessToken, newRefresh, err := auth.GenerateTokens(claims.UserID, claims.Device)
	if err != nil {
		return "", "", err
	}

	ttl := time.Duration(config.GlobalConfig.JWT.RefreshExpire) * time.Second
	if err := s.Session.SaveRefreshToken(claims.UserID, claims.Device, newRefresh, ttl); err != nil {
		return "", "", err
	}

	// Keep the old refresh token from being replayed.
	_ = s.Session.AddBlackList(refreshToken, ttl)

	return accessToken, newRefresh, nil
}

// FindUser fetches an account for profile display.
func (s *UserService) FindUser(id uint64) (*model.User, error) {
	return s.dao.FindByID(id)
}
