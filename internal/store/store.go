package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-authgate/apigate/internal/config"
	"github.com/go-authgate/apigate/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultAdminUsername = "admin"

type Store struct {
	db *gorm.DB
}

// New opens the database, migrates the user table and seeds the default
// admin account when the table is empty.
func New(ctx context.Context, driver, dsn string, cfg *config.Config) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Every new connection to ":memory:" is a separate database
	if driver == DriverSQLite && strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.User{}); err != nil {
		return nil, err
	}

	store := &Store{db: db}

	if err := store.seedData(ctx, cfg); err != nil {
		log.Printf("[Store] Warning: failed to seed data: %v", err)
	}

	return store, nil
}

// generateRandomPassword generates a random password of specified length
func generateRandomPassword(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

func (s *Store) seedData(ctx context.Context, cfg *config.Config) error {
	var userCount int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	password := ""
	if cfg != nil {
		password = cfg.DefaultAdminPassword
	}
	generated := password == ""
	if generated {
		var err error
		if password, err = generateRandomPassword(16); err != nil {
			return err
		}
	}

	if _, err := s.CreateLocalUser(
		ctx,
		defaultAdminUsername,
		"admin@localhost",
		"Administrator",
		password,
	); err != nil {
		return err
	}

	if generated {
		log.Printf("[Store] Created default user: %s / %s", defaultAdminUsername, password)
	} else {
		log.Printf("[Store] Created default user: %s (password from DEFAULT_ADMIN_PASSWORD)",
			defaultAdminUsername)
	}
	return nil
}

// GetUserByUsername returns ErrRecordNotFound when no user has that name.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts user, assigning an ID when missing.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.AuthSource == "" {
		user.AuthSource = models.AuthSourceLocal
	}

	var existing int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", user.Username).
		Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing > 0 {
		return ErrUsernameConflict
	}

	return s.db.WithContext(ctx).Create(user).Error
}

// CreateLocalUser hashes password with bcrypt and stores a local account.
func (s *Store) CreateLocalUser(
	ctx context.Context,
	username, email, fullName, password string,
) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		AuthSource:   models.AuthSourceLocal,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{}).Error
}

// CountUsersByAuthSource counts users created for authSource.
func (s *Store) CountUsersByAuthSource(ctx context.Context, authSource string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("auth_source = ?", authSource).
		Count(&count).Error
	return count, err
}

// Health checks the database connection
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
