package handlers

import (
	"agromart/models"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
)

// 建立客服工單
func CreateTicketHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var ticketReq struct {
		Subject  string `json:"subject" binding:"required"`
		Body     string `json:"body" binding:"required"`
		Priority string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&ticketReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	ticket := models.SupportTicket{
		UserID:   userID.(uint),
		Subject:  ticketReq.Subject,
		Body:     ticketReq.Body,
		Priority: ticketReq.Priority,
		Status:   models.TicketStatusOpen,
	}
	if err := db.Create(&ticket).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "建立工單失敗", err)
		return
	}

	respondOK(c, http.StatusCreated, "成功建立工單", gin.H{
		"TicketID": ticket.ID,
		"Status":   ticket.Status,
	})
}

// 查詢自己的工單列表
func GetTicketListHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var tickets []models.SupportTicket
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tickets).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢工單列表失敗", err)
		return
	}

	var ticketList []gin.H
	for _, ticket := range tickets {
		ticketList = append(ticketList, gin.H{
			"TicketID":  ticket.ID,
			"Subject":   ticket.Subject,
			"Status":    ticket.Status,
			"Priority":  ticket.Priority,
			"CreatedAt": ticket.CreatedAt,
		})
	}

	respondOK(c, http.StatusOK, "成功查詢工單列表", gin.H{
		"ticketList": ticketList,
	})
}

// 查詢工單，一般使用者只能查自己的，admin可查全部
func findTicket(c *gin.Context, db *gorm.DB) (*models.SupportTicket, bool) {
	ticketID := c.Param("ticketID")
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return nil, false
	}

	query := db.Where("id = ?", ticketID)
	if role, _ := c.Get("Role"); role != adminRole {
		query = query.Where("user_id = ?", userID)
	}

	var ticket models.SupportTicket
	err := query.Preload("Comments").First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此工單")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢工單失敗", err)
		return nil, false
	}

	return &ticket, true
}

func GetTicketDataHandler(c *gin.Context, db *gorm.DB) {
	ticket, ok := findTicket(c, db)
	if !ok {
		return
	}

	var commentsData []gin.H
	for _, comment := range ticket.Comments {
		commentsData = append(commentsData, gin.H{
			"UserID":    comment.UserID,
			"Body":      comment.Body,
			"CreatedAt": comment.CreatedAt,
		})
	}

	respondOK(c, http.StatusOK, "成功查詢工單", gin.H{
		"TicketID":  ticket.ID,
		"Subject":   ticket.Subject,
		"Body":      ticket.Body,
		"Status":    ticket.Status,
		"Priority":  ticket.Priority,
		"Assignee":  ticket.Assignee,
		"CreatedAt": ticket.CreatedAt,
		"comments":  commentsData,
	})
}

// 在工單下留言，留言後工單轉為pending
func AddTicketCommentHandler(c *gin.Context, db *gorm.DB) {
	ticket, ok := findTicket(c, db)
	if !ok {
		return
	}

	if ticket.Status == models.TicketStatusResolved {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "工單已結案，無法留言")
		return
	}

	var commentReq struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&commentReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	userID, _ := c.Get("UserID")
	comment := models.TicketComment{
		TicketID: ticket.ID,
		UserID:   userID.(uint),
		Body:     commentReq.Body,
	}
	if err := db.Create(&comment).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "新增留言失敗", err)
		return
	}

	if ticket.Status == models.TicketStatusOpen {
		db.Model(ticket).Update("status", models.TicketStatusPending)
	}

	respondOK(c, http.StatusCreated, "成功新增留言", gin.H{
		"TicketID": ticket.ID,
	})
}

// 更新工單狀態與指派(admin)
func UpdateTicketHandler(c *gin.Context, db *gorm.DB) {
	ticketID := c.Param("ticketID")

	var updateReq struct {
		Status   *string `json:"status"`
		Assignee *string `json:"assignee"`
		Priority *string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	var ticket models.SupportTicket
	err := db.First(&ticket, "id = ?", ticketID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此工單")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢工單失敗", err)
		return
	}

	if updateReq.Status != nil {
		switch *updateReq.Status {
		case models.TicketStatusOpen, models.TicketStatusPending, models.TicketStatusResolved:
			ticket.Status = *updateReq.Status
		default:
			respondFail(c, http.StatusBadRequest, CodeValidationError, "不合法的工單狀態")
			return
		}
	}
	if updateReq.Assignee != nil {
		ticket.Assignee = *updateReq.Assignee
	}
	if updateReq.Priority != nil {
		ticket.Priority = *updateReq.Priority
	}

	if err := db.Save(&ticket).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "更新工單失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功更新工單", gin.H{
		"TicketID": ticket.ID,
		"Status":   ticket.Status,
		"Assignee": ticket.Assignee,
	})
}
