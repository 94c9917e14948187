package handlers

import (
	"agromart/models"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
	"strings"
)

// 查詢已發布的文章列表
func GetBlogPostListHandler(c *gin.Context, db *gorm.DB) {
	var posts []models.BlogPost
	err := db.
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢文章列表失敗", err)
		return
	}

	var postList []gin.H
	for _, post := range posts {
		postList = append(postList, gin.H{
			"Title":     post.Title,
			"Slug":      post.Slug,
			"Tags":      strings.Split(post.Tags, ","),
			"CreatedAt": post.CreatedAt,
		})
	}

	respondOK(c, http.StatusOK, "成功查詢文章列表", gin.H{
		"posts": postList,
	})
}

// 以slug查詢已發布的文章
func GetBlogPostHandler(c *gin.Context, db *gorm.DB) {
	slug := c.Param("slug")

	var post models.BlogPost
	err := db.Where("slug = ? AND published = ?", slug, true).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此文章")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢文章失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功查詢文章", gin.H{
		"Title":     post.Title,
		"Slug":      post.Slug,
		"Content":   post.Content,
		"Tags":      strings.Split(post.Tags, ","),
		"CreatedAt": post.CreatedAt,
		"UpdatedAt": post.UpdatedAt,
	})
}

// 新增文章(admin)
func CreateBlogPostHandler(c *gin.Context, db *gorm.DB) {
	userID, _ := c.Get("UserID")

	var postReq struct {
		Title     string   `json:"title" binding:"required"`
		Content   string   `json:"content" binding:"required"`
		Tags      []string `json:"tags"`
		Published bool     `json:"published"`
	}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	post := models.BlogPost{
		Title:     postReq.Title,
		Slug:      MakeSlug(postReq.Title),
		Content:   postReq.Content,
		Tags:      strings.Join(postReq.Tags, ","),
		AuthorID:  userID.(uint),
		Published: postReq.Published,
	}
	if err := db.Create(&post).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "新增文章失敗", err)
		return
	}

	respondOK(c, http.StatusCreated, "成功新增文章", gin.H{
		"PostID": post.ID,
		"Slug":   post.Slug,
	})
}

// 修改文章(admin)
func UpdateBlogPostHandler(c *gin.Context, db *gorm.DB) {
	postID := c.Param("postID")

	var postReq struct {
		Title     *string  `json:"title"`
		Content   *string  `json:"content"`
		Tags      []string `json:"tags"`
		Published *bool    `json:"published"`
	}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	var post models.BlogPost
	err := db.First(&post, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此文章")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢文章失敗", err)
		return
	}

	if postReq.Title != nil {
		post.Title = *postReq.Title
		post.Slug = MakeSlug(*postReq.Title)
	}
	if postReq.Content != nil {
		post.Content = *postReq.Content
	}
	if postReq.Tags != nil {
		post.Tags = strings.Join(postReq.Tags, ",")
	}
	if postReq.Published != nil {
		post.Published = *postReq.Published
	}

	if err := db.Save(&post).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "修改文章失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功修改文章", gin.H{
		"PostID": post.ID,
		"Slug":   post.Slug,
	})
}

// 刪除文章(admin)
func DeleteBlogPostHandler(c *gin.Context, db *gorm.DB) {
	postID := c.Param("postID")

	result := db.Delete(&models.BlogPost{}, "id = ?", postID)
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "刪除文章失敗", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此文章")
		return
	}

	respondOK(c, http.StatusOK, "成功刪除文章", nil)
}
