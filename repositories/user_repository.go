package repositories

import (
	"context"
	"errors"

	"github.com/Sr1515/social_network/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return UserRepository{db: db}
}

// FindByID returns ErrUserNotFound when no user has that id.
func (r UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Usernames maps each id to its username; unknown ids are left out.
func (r UserRepository) Usernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

// DeleteCascade removes the user together with everything they own: posts with their
// comments and likes, the user's own comments, likes and follows, and their conversations.
func (r UserRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		conversations := tx.Model(&models.Conversation{}).Select("id").Where("user1_id = ? OR user2_id = ?", id, id)

		steps := []func() error{
			func() error {
				return tx.Where("post_id IN (?)", ownPosts).Or("user_id = ?", id).Delete(&models.Like{}).Error
			},
			func() error {
				return tx.Where("post_id IN (?)", ownPosts).Or("author_id = ?", id).Delete(&models.Comment{}).Error
			},
			func() error {
				return tx.Where("author_id = ?", id).Delete(&models.Post{}).Error
			},
			func() error {
				return tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{}).Error
			},
			func() error {
				return tx.Where("conversation_id IN (?)", conversations).Delete(&models.Message{}).Error
			},
			func() error {
				return tx.Where("user1_id = ? OR user2_id = ?", id, id).Delete(&models.Conversation{}).Error
			},
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}
