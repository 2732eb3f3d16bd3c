package database

import (
	"fmt"
	"log"

	"github.com/Sr1515/social_network/auth"
	config "github.com/Sr1515/social_network/configs"
	"github.com/Sr1515/social_network/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Dialector picks the gorm driver for DB_DRIVER (postgres by default).
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func ConnectDB() {
	dialector, err := Dialector(config.Config("DB_DRIVER"), config.Config("DATABASE_URL"))
	if err != nil {
		log.Fatalf("🔥 Failed to configure database: %v", err)
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Conversation{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedStaff creates the staff account described by ADMIN_* if it does not exist yet.
func SeedStaff() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️ ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping staff seed.")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for staff user: %v", err)
	}
	if count > 0 {
		log.Println("Staff user already exists.")
		return
	}

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("🔥 Failed to hash staff password: %v", err)
	}

	staff := models.User{
		Username: config.ConfigDefault("ADMIN_USERNAME", "admin"),
		Email:    adminEmail,
		Password: hashedPassword,
		IsStaff:  true,
		IsActive: true,
	}
	if err := DB.Create(&staff).Error; err != nil {
		log.Fatalf("🔥 Failed to seed staff user: %v", err)
	}

	log.Println("✅ Staff user seeded successfully")
}
