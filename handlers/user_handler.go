package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Sr1515/social_network/database"
	"github.com/Sr1515/social_network/middleware"
	"github.com/Sr1515/social_network/models"
	"github.com/Sr1515/social_network/notifications"
	"github.com/Sr1515/social_network/repositories"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UpdateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=100,alphanum"`
	Bio       *string `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=255"`
}

// searchUsers filters on username or email, case-insensitively on both postgres and mysql.
func searchUsers(db *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return db
	}
	term := "%" + strings.ToLower(search) + "%"
	return db.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", term, term)
}

func ListUsers(c *fiber.Ctx) error {
	page, limit := pagination(c, 20)
	search := strings.TrimSpace(c.Query("search"))
	db := database.DB.WithContext(c.UserContext())

	var total int64
	if err := searchUsers(db.Model(&models.User{}), search).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var users []models.User
	err := searchUsers(db, search).
		Where("is_active = ?", true).
		Order("username asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{"data": toUsers(users), "meta": pageMeta(total, page, limit)})
}

func GetUser(c *fiber.Ctx) error {
	userID, ok, err := paramUUID(c, "userId", "user")
	if !ok {
		return err
	}

	var user models.User
	if err := database.DB.WithContext(c.UserContext()).First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(toUser(user))
}

func GetMe(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var user models.User
	if err := database.DB.WithContext(c.UserContext()).First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(toPrivateUser(user))
}

func UpdateMe(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.DB.WithContext(c.UserContext())
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already taken"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(toPrivateUser(user))
}

func DeleteMe(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	users := repositories.NewUserRepository(database.DB)
	if err := users.DeleteCascade(c.UserContext(), userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.Printf("🔥 Failed to delete account %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete account"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func FollowUser(c *fiber.Ctx) error {
	followerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	followedID, ok, err := paramUUID(c, "userId", "user")
	if !ok {
		return err
	}
	if followerID == followedID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot follow yourself"})
	}

	db := database.DB.WithContext(c.UserContext())
	var follower, followed models.User
	if err := db.First(&followed, "id = ?", followedID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err := db.First(&follower, "id = ?", followerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	follow := models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := db.Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already follow this user"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to follow user"})
	}

	go notifications.SendEmail(followed.Username, followed.Email, "You have a new follower",
		fmt.Sprintf("<p><strong>%s</strong> started following you.</p>", follower.Username))

	return c.Status(fiber.StatusCreated).JSON(follow)
}

func UnfollowUser(c *fiber.Ctx) error {
	followerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	followedID, ok, err := paramUUID(c, "userId", "user")
	if !ok {
		return err
	}

	result := database.DB.WithContext(c.UserContext()).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to unfollow user"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "You do not follow this user"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListFollowers(c *fiber.Ctx) error {
	return listFollowEdges(c, "follows.follower_id", "follows.followed_id")
}

func ListFollowing(c *fiber.Ctx) error {
	return listFollowEdges(c, "follows.followed_id", "follows.follower_id")
}

// listFollowEdges returns the users on the `show` side of follows whose `anchor` side is :userId.
func listFollowEdges(c *fiber.Ctx, show, anchor string) error {
	userID, ok, err := paramUUID(c, "userId", "user")
	if !ok {
		return err
	}

	var users []models.User
	err = database.DB.WithContext(c.UserContext()).
		Joins(fmt.Sprintf("JOIN follows ON %s = users.id", show)).
		Where(anchor+" = ?", userID).
		Order("follows.created_at desc").
		Find(&users).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(toUsers(users))
}
