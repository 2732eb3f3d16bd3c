package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/Sr1515/social_network/database"
	"github.com/Sr1515/social_network/middleware"
	"github.com/Sr1515/social_network/models"
	"github.com/Sr1515/social_network/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type CreatePostRequest struct {
	Title   string `json:"title" form:"title" validate:"required,max=100"`
	Content string `json:"content" form:"content" validate:"required"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title" form:"title" validate:"omitempty,min=1,max=100"`
	Content *string `json:"content" form:"content" validate:"omitempty,min=1"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type PostResponse struct {
	ID            uuid.UUID    `json:"id"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	ImageURL      *string      `json:"image_url"`
	Author        UserResponse `json:"author"`
	LikesCount    int64        `json:"likes_count"`
	CommentsCount int64        `json:"comments_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type CommentResponse struct {
	ID        uuid.UUID    `json:"id"`
	PostID    uuid.UUID    `json:"post_id"`
	Author    UserResponse `json:"author"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func toPost(p models.Post) PostResponse {
	return PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		ImageURL:      p.ImageURL,
		Author:        toUser(p.Author),
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toComment(cm models.Comment) CommentResponse {
	return CommentResponse{
		ID:        cm.ID,
		PostID:    cm.PostID,
		Author:    toUser(cm.Author),
		Text:      cm.Text,
		CreatedAt: cm.CreatedAt,
		UpdatedAt: cm.UpdatedAt,
	}
}

func postsWithCounts(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Select("posts.*, " +
			"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count").
		Preload("Author")
}

// formImage returns the multipart "image" file, or nil when the request carries none.
func formImage(c *fiber.Ctx) *multipart.FileHeader {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil || len(form.File["image"]) == 0 {
		return nil
	}
	return form.File["image"][0]
}

func ListPosts(c *fiber.Ctx) error {
	page, limit := pagination(c, 20)
	db := database.DB.WithContext(c.UserContext())

	filter := func(db *gorm.DB) *gorm.DB { return db }
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid author ID"})
		}
		filter = func(db *gorm.DB) *gorm.DB { return db.Where("posts.author_id = ?", authorID) }
	}

	var total int64
	if err := db.Model(&models.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var posts []models.Post
	err := postsWithCounts(db).
		Scopes(filter).
		Order("posts.created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"data": lo.Map(posts, func(p models.Post, _ int) PostResponse { return toPost(p) }),
		"meta": pageMeta(total, page, limit),
	})
}

func GetPost(c *fiber.Ctx) error {
	postID, ok, err := paramUUID(c, "postId", "post")
	if !ok {
		return err
	}

	var post models.Post
	if err := postsWithCounts(database.DB.WithContext(c.UserContext())).First(&post, "posts.id = ?", postID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}
	return c.JSON(toPost(post))
}

func CreatePost(c *fiber.Ctx) error {
	authorID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	post := models.Post{Title: req.Title, Content: req.Content, AuthorID: authorID}
	if image := formImage(c); image != nil {
		url, err := services.UploadPostImage(c.UserContext(), image, authorID)
		if err != nil {
			log.Printf("🔥 Failed to upload image for post by %s: %v", authorID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to upload image"})
		}
		post.ImageURL = &url
	}

	db := database.DB.WithContext(c.UserContext())
	if err := db.Create(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create post"})
	}
	if err := db.First(&post.Author, "id = ?", authorID).Error; err != nil {
		log.Printf("⚠️ Created post %s but could not load its author: %v", post.ID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPost(post))
}

// loadOwnPost loads :postId and checks that the caller wrote it. On failure it has
// already answered the request and returns ok=false.
func loadOwnPost(c *fiber.Ctx) (post models.Post, ok bool, err error) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return post, false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	postID, ok, err := paramUUID(c, "postId", "post")
	if !ok {
		return post, false, err
	}
	if err := postsWithCounts(database.DB.WithContext(c.UserContext())).First(&post, "posts.id = ?", postID).Error; err != nil {
		return post, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}
	if post.AuthorID != userID {
		return post, false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the author can change this post"})
	}
	return post, true, nil
}

func UpdatePost(c *fiber.Ctx) error {
	post, ok, err := loadOwnPost(c)
	if !ok {
		return err
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		post.Title = *req.Title
		updates["title"] = post.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
		updates["content"] = post.Content
	}
	if image := formImage(c); image != nil {
		url, err := services.UploadPostImage(c.UserContext(), image, post.AuthorID)
		if err != nil {
			log.Printf("🔥 Failed to upload image for post %s: %v", post.ID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to upload image"})
		}
		post.ImageURL = &url
		updates["image_url"] = url
	}

	if len(updates) > 0 {
		if err := database.DB.WithContext(c.UserContext()).Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update post"})
		}
	}
	return c.JSON(toPost(post))
}

func DeletePost(c *fiber.Ctx) error {
	post, ok, err := loadOwnPost(c)
	if !ok {
		return err
	}

	err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", post.ID).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete post"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListComments(c *fiber.Ctx) error {
	postID, ok, err := paramUUID(c, "postId", "post")
	if !ok {
		return err
	}

	db := database.DB.WithContext(c.UserContext())
	var count int64
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil || count == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	var comments []models.Comment
	if err := db.Preload("Author").Where("post_id = ?", postID).Order("created_at asc").Find(&comments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(lo.Map(comments, func(cm models.Comment, _ int) CommentResponse { return toComment(cm) }))
}

func CreateComment(c *fiber.Ctx) error {
	authorID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	postID, ok, err := paramUUID(c, "postId", "post")
	if !ok {
		return err
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.DB.WithContext(c.UserContext())
	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	comment := models.Comment{PostID: postID, AuthorID: authorID, Text: req.Text}
	if err := db.Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create comment"})
	}
	db.First(&comment.Author, "id = ?", authorID)
	return c.Status(fiber.StatusCreated).JSON(toComment(comment))
}

// loadOwnComment loads :commentId under :postId and checks that the caller wrote it.
func loadOwnComment(c *fiber.Ctx) (comment models.Comment, ok bool, err error) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return comment, false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	postID, ok, err := paramUUID(c, "postId", "post")
	if !ok {
		return comment, false, err
	}
	commentID, ok, err := paramUUID(c, "commentId", "comment")
	if !ok {
		return comment, false, err
	}

	err = database.DB.WithContext(c.UserContext()).
		Preload("Author").
		First(&comment, "id = ? AND post_id = ?", commentID, postID).Error
	if err != nil {
		return comment, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
	}
	if comment.AuthorID != userID {
		return comment, false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the author can change this comment"})
	}
	return comment, true, nil
}

func UpdateComment(c *fiber.Ctx) error {
	comment, ok, err := loadOwnComment(c)
	if !ok {
		return err
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	comment.Text = req.Text
	if err := database.DB.WithContext(c.UserContext()).Model(&comment).Update("text", req.Text).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update comment"})
	}
	return c.JSON(toComment(comment))
}

func DeleteComment(c *fiber.Ctx) error {
	comment, ok, err := loadOwnComment(c)
	if !ok {
		return err
	}
	if err := database.DB.WithContext(c.UserContext()).Delete(&models.Comment{}, "id = ?", comment.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete comment"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func LikePost(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	postID, ok, err := paramUUID(c, "postId", "post")
	if !ok {
		return err
	}

	db := database.DB.WithContext(c.UserContext())
	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	like := models.Like{UserID: userID, PostID: postID}
	if err := db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already liked this post"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to like post"})
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

func UnlikePost(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	postID, ok, err := paramUUID(c, "postId", "post")
	if !ok {
		return err
	}

	result := database.DB.WithContext(c.UserContext()).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to unlike post"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "You have not liked this post"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
