package services

import (
	"context"
	stderrors "errors"

	"github.com/vladimiradmaev/qadha-helper/internal/database"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error) {
	user := &database.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	}

	result := s.db.WithContext(ctx).
		Where(database.User{TelegramID: telegramID}).
		Assign(database.User{Username: username, FirstName: firstName, LastName: lastName}).
		FirstOrCreate(user)
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError(result.Error, "register user")
	}

	return user, nil
}

func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError(err, "get user")
	}
	return &user, nil
}
