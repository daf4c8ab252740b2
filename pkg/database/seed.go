package database

import (
	"github.com/edubooster/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultAdmin defines the default admin user credentials
type DefaultAdmin struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// GetDefaultAdmin returns the default admin user
func GetDefaultAdmin() DefaultAdmin {
	return DefaultAdmin{
		FirstName: "Admin",
		LastName:  "Booster",
		Email:     "admin@edubooster.local",
		Password:  "Admin@123", // Change this in production!
		Phone:     "+330000000000",
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedUsers(db)
}

// SeedUsers creates the default admin user if not exists
func SeedUsers(db *gorm.DB) error {
	admin := GetDefaultAdmin()

	var existingUser model.User
	result := db.Where("email = ?", admin.Email).First(&existingUser)

	if result.Error == nil {
		// User already exists, skip seeding
		return nil
	}

	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), 12)
	if err != nil {
		return err
	}

	user := model.User{
		FirstName:  admin.FirstName,
		LastName:   admin.LastName,
		Email:      admin.Email,
		Password:   string(hashedPassword),
		Phone:      admin.Phone,
		Role:       model.RoleAdmin,
		IsVerified: true,
	}

	return db.Create(&user).Error
}
