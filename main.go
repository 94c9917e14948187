package main

import (
	"agromart/config"
	"agromart/routers"
	"github.com/joho/godotenv"
	"log"
	"os"
)

func main() {
	//讀取環境變數(JWT密鑰、金流密鑰等)
	if err := godotenv.Load(); err != nil {
		log.Println("找不到.env檔案，改用系統環境變數")
	}
	if os.Getenv("JWT_SECRET") == "" || os.Getenv("JWT_REFRESH_SECRET") == "" {
		log.Fatal("尚未設定JWT_SECRET或JWT_REFRESH_SECRET")
	}

	db, err := config.SetupMySQLConnection()
	if err != nil {
		log.Fatalf("無法連接到資料庫: %v", err)
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	rdb, err := config.SetupRedisConnection()
	if err != nil {
		log.Fatalf("無法連接到Redis: %v", err)
	}
	defer rdb.Close()

	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("無法讀取設定檔: %v", err)
	}
	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":3000"
	}

	router := routers.SetupRouters(db, rdb)
	if err := router.Run(addr); err != nil {
		log.Fatalf("伺服器啟動失敗: %v", err)
	}
}
