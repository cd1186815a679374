package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// User is a local account. Email is the secondary match key for Google
// logins; GoogleID is the primary one once linked. Password stays nil
// for accounts that only ever signed in socially.
type User struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Name      string  `gorm:"size:255"`
	Email     string  `gorm:"uniqueIndex;size:191"`
	GoogleID  *string `gorm:"uniqueIndex;size:64"`
	Avatar    string  `gorm:"size:512"`
	Password  *string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GoogleProfile is the identity assertion we get back from Google.
type GoogleProfile struct {
	ID     string
	Name   string
	Email  string
	Avatar string
}

// OpenDatabase opens the SQLite user store and runs migrations.
func OpenDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate user database: %w", err)
	}
	return db, nil
}

// ResolveGoogleUser exchanges a Google profile for a local user. Match
// by GoogleID first, then by email (linking the GoogleID in place);
// create a passwordless account when neither matches.
func ResolveGoogleUser(db *gorm.DB, p GoogleProfile) (*User, error) {
	var user User

	err := db.Where("google_id = ?", p.ID).First(&user).Error
	if err == nil {
		user.Name = p.Name
		user.Avatar = p.Avatar
		if err := db.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Where("email = ?", p.Email).First(&user).Error
	if err == nil {
		googleID := p.ID
		user.GoogleID = &googleID
		user.Name = p.Name
		user.Avatar = p.Avatar
		if err := db.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	googleID := p.ID
	user = User{
		ID:       uuid.NewString(),
		Name:     p.Name,
		Email:    p.Email,
		GoogleID: &googleID,
		Avatar:   p.Avatar,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
