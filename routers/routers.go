package routers

import (
	"agromart/handlers"
	"agromart/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRouters(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	//建立Gin路由器
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Agro-Signature"},
		ExposeHeaders:    []string{"Authorization"},
		AllowCredentials: false,
	}))
	err := router.SetTrustedProxies(nil)
	if err != nil {
		return nil
	}

	//設定商品圖片靜態資源路徑
	router.Static("/uploads", "./uploads")

	//金流Webhook只驗簽章，不走使用者認證
	router.POST("/api/v1/payment/webhook",
		middleware.RateLimitMiddleware(rdb, middleware.RateLimitWebhook),
		func(context *gin.Context) {
			handlers.PaymentWebhookHandler(context, db, rdb)
		})

	////無須權限，使用中間件檢查是否登入
	router.Use(middleware.AuthMiddleware(db))
	{
		//查詢商品列表
		router.GET("/api/v1/products", func(context *gin.Context) {
			handlers.GetProductListHandler(context, db, rdb)
		})
		//搜尋完整包含標籤的所有商品
		router.GET("/api/v1/products/categories", func(context *gin.Context) {
			handlers.GetProductsFromCategoriesHandler(context, db, rdb)
		})
		//查詢商品詳細資料
		router.GET("/api/v1/products/:productID", func(context *gin.Context) {
			handlers.GetProductDataHandler(context, db)
		})
		//查詢商品評價
		router.GET("/api/v1/products/:productID/reviews", func(context *gin.Context) {
			handlers.GetProductReviewsHandler(context, db)
		})
		//查詢商品標籤列表
		router.GET("/api/v1/categories", func(context *gin.Context) {
			handlers.GetCategoryListHandler(context, db)
		})
		//查詢部落格文章
		router.GET("/api/v1/blog", func(context *gin.Context) {
			handlers.GetBlogPostListHandler(context, db)
		})
		router.GET("/api/v1/blog/:slug", func(context *gin.Context) {
			handlers.GetBlogPostHandler(context, db)
		})
		//註冊帳號
		router.POST("/api/v1/register",
			middleware.RateLimitMiddleware(rdb, middleware.RateLimitRegister),
			func(context *gin.Context) {
				handlers.RegisterHandler(context, db)
			})
		//登入帳號
		router.POST("/api/v1/login",
			middleware.RateLimitMiddleware(rdb, middleware.RateLimitLogin),
			func(context *gin.Context) {
				handlers.LoginHandler(context, db)
			})
		//以refresh token換發access token
		router.POST("/api/v1/token/refresh",
			middleware.RateLimitMiddleware(rdb, middleware.RateLimitLogin),
			func(context *gin.Context) {
				handlers.RefreshTokenHandler(context, db)
			})
		//新增商品至購物車
		router.POST("/api/v1/carts/add", func(context *gin.Context) {
			handlers.AddToCartHandler(context, db)
		})
		//更新購物車商品數量
		router.POST("/api/v1/carts/update", func(context *gin.Context) {
			handlers.UpdateCartItemQuantityHandler(context, db)
		})
		//套用優惠券
		router.POST("/api/v1/carts/coupon", func(context *gin.Context) {
			handlers.ApplyCouponHandler(context, db)
		})
		//移除優惠券
		router.DELETE("/api/v1/carts/coupon", func(context *gin.Context) {
			handlers.RemoveCouponHandler(context, db)
		})
		//刪除購物車商品
		router.DELETE("/api/v1/carts/:productID", func(context *gin.Context) {
			handlers.DeleteCartItemHandler(context, db)
		})
		//查詢購物車商品
		router.GET("/api/v1/carts", func(context *gin.Context) {
			handlers.GetCartHandler(context, db)
		})
		//清除購物車商品
		router.DELETE("/api/v1/carts", func(context *gin.Context) {
			handlers.ClearCartHandler(context, db)
		})

		////需要登入，使用中間件檢查是否登入
		loginRequired := router.Group("/api/v1/user")
		loginRequired.Use(middleware.CheckLoginMiddleware())
		{
			//查詢使用者資料
			loginRequired.GET("/profile", func(context *gin.Context) {
				handlers.GetUserProfileHandler(context, db)
			})
			//修改使用者資料
			loginRequired.PATCH("/profile/edit", func(context *gin.Context) {
				handlers.UpdateUserProfileHandler(context, db)
			})
			//合併匿名和使用者購物車(登入或註冊後呼叫)
			loginRequired.POST("/carts/merge", func(context *gin.Context) {
				handlers.MergeCartHandler(context, db)
			})
			//送出訂單並清除購物車內對應商品
			loginRequired.POST("/orders",
				middleware.RateLimitMiddleware(rdb, middleware.RateLimitCheckout),
				func(context *gin.Context) {
					handlers.SendOrderHandler(context, db, rdb)
				})
			//查詢訂單列表
			loginRequired.GET("/orders", func(context *gin.Context) {
				handlers.GetOrderListHandler(context, db)
			})
			//查詢訂單詳細資訊
			loginRequired.GET("/orders/:orderID", func(context *gin.Context) {
				handlers.GetOrderDataHandler(context, db)
			})
			//查詢訂單物流狀態
			loginRequired.GET("/orders/:orderID/tracking", func(context *gin.Context) {
				handlers.GetOrderTrackingHandler(context, db)
			})
			//查詢訂單收據
			loginRequired.GET("/orders/:orderID/invoice", func(context *gin.Context) {
				handlers.GetOrderInvoiceHandler(context, db)
			})
			//取消訂單
			loginRequired.POST("/orders/:orderID/cancel", func(context *gin.Context) {
				handlers.CancelOrderHandler(context, db)
			})
			//建立付款意圖
			loginRequired.POST("/payment/create-intent",
				middleware.RateLimitMiddleware(rdb, middleware.RateLimitCheckout),
				func(context *gin.Context) {
					handlers.CreatePaymentIntentHandler(context, db)
				})
			//模擬付款結果(開發用)
			loginRequired.POST("/payment/simulate", func(context *gin.Context) {
				handlers.SimulatePaymentHandler(context, db)
			})
			//新增商品評價
			loginRequired.POST("/reviews",
				middleware.RateLimitMiddleware(rdb, middleware.RateLimitReview),
				func(context *gin.Context) {
					handlers.CreateReviewHandler(context, db)
				})
			//評價按讚
			loginRequired.POST("/reviews/:reviewID/helpful", func(context *gin.Context) {
				handlers.MarkReviewHelpfulHandler(context, db)
			})
			//收件地址
			loginRequired.GET("/addresses", func(context *gin.Context) {
				handlers.GetAddressListHandler(context, db)
			})
			loginRequired.POST("/addresses", func(context *gin.Context) {
				handlers.CreateAddressHandler(context, db)
			})
			loginRequired.PATCH("/addresses/:addressID", func(context *gin.Context) {
				handlers.UpdateAddressHandler(context, db)
			})
			loginRequired.DELETE("/addresses/:addressID", func(context *gin.Context) {
				handlers.DeleteAddressHandler(context, db)
			})
			//客服工單
			loginRequired.POST("/tickets", func(context *gin.Context) {
				handlers.CreateTicketHandler(context, db)
			})
			loginRequired.GET("/tickets", func(context *gin.Context) {
				handlers.GetTicketListHandler(context, db)
			})
			loginRequired.GET("/tickets/:ticketID", func(context *gin.Context) {
				handlers.GetTicketDataHandler(context, db)
			})
			loginRequired.POST("/tickets/:ticketID/comments", func(context *gin.Context) {
				handlers.AddTicketCommentHandler(context, db)
			})
			//登出
			loginRequired.POST("/logout", func(context *gin.Context) {
				handlers.LogOutHandler(context, db)
			})
		}

		////需要admin身分，使用中間件檢查是否登入及admin權限
		adminRequired := router.Group("/api/v1/admin")
		adminRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckAdminPermissionMiddleware())
		{
			//查詢使用者列表
			adminRequired.GET("/users", func(context *gin.Context) {
				handlers.GetUserListHandler(context, db)
			})
			//上傳商品圖片
			adminRequired.POST("/image", func(context *gin.Context) {
				handlers.UploadImageHandler(context)
			})
			//查詢商品完整資料
			adminRequired.GET("/products/:productID", func(context *gin.Context) {
				handlers.GetProductAllDataHandler(context, db)
			})
			//新增商品
			adminRequired.POST("/products", func(context *gin.Context) {
				handlers.CreateProductHandler(context, db, rdb)
			})
			//修改商品
			adminRequired.PATCH("/products/:productID", func(context *gin.Context) {
				handlers.UpdateProductHandler(context, db, rdb)
			})
			//刪除商品
			adminRequired.DELETE("/products/:productID", func(context *gin.Context) {
				handlers.DeleteProductHandler(context, db, rdb)
			})
			//查詢商品標籤列表
			adminRequired.GET("/categories", func(context *gin.Context) {
				handlers.GetCategoryListHandler(context, db)
			})
			//刪除商品標籤
			adminRequired.DELETE("/categories/:categoryID", func(context *gin.Context) {
				handlers.DeleteCategoryHandler(context, db)
			})
			//查詢所有訂單
			adminRequired.GET("/orders", func(context *gin.Context) {
				handlers.GetAllOrdersHandler(context, db)
			})
			//更新訂單狀態
			adminRequired.PATCH("/orders/:orderID/status", func(context *gin.Context) {
				handlers.UpdateOrderStatusHandler(context, db)
			})
			//退款
			adminRequired.POST("/orders/:orderID/refund", func(context *gin.Context) {
				handlers.RefundOrderHandler(context, db)
			})
			//更新客服工單
			adminRequired.PATCH("/tickets/:ticketID", func(context *gin.Context) {
				handlers.UpdateTicketHandler(context, db)
			})
			//部落格文章管理
			adminRequired.POST("/blog", func(context *gin.Context) {
				handlers.CreateBlogPostHandler(context, db)
			})
			adminRequired.PATCH("/blog/:postID", func(context *gin.Context) {
				handlers.UpdateBlogPostHandler(context, db)
			})
			adminRequired.DELETE("/blog/:postID", func(context *gin.Context) {
				handlers.DeleteBlogPostHandler(context, db)
			})
			//營運統計
			adminRequired.GET("/analytics", func(context *gin.Context) {
				handlers.GetAnalyticsHandler(context, db)
			})
		}
	}

	return router
}
