package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// User 定义了用户模型
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Username     string `gorm:"not null" json:"username"`
	Nickname     string `json:"nickname"`
	Password     string `gorm:"not null" json:"-"`
	ProfileImage string `json:"profile_image"`
}

// DisplayName prefers the nickname and falls back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Nickname); name != "" {
		return name
	}
	return u.Username
}

// FindUserByID loads an account by primary key.
func FindUserByID(gdb *gorm.DB, id uint) (*User, error) {
	var user User
	if err := gdb.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail loads an account by its login email.
func FindUserByEmail(gdb *gorm.DB, email string) (*User, error) {
	var user User
	if err := gdb.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CheckPassword 校验明文密码与 bcrypt 哈希是否匹配。
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// EnsureUser 存在性检查：若邮箱与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的用户。
func EnsureUser(gdb *gorm.DB, email, password, nickname string) error {
	trimmedEmail := strings.TrimSpace(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	_, err := FindUserByEmail(gdb, trimmedEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	username := trimmedEmail
	if at := strings.Index(trimmedEmail, "@"); at > 0 {
		username = trimmedEmail[:at]
	}

	return gdb.Create(&User{
		Email:    trimmedEmail,
		Username: username,
		Nickname: strings.TrimSpace(nickname),
		Password: string(hashed),
	}).Error
}
