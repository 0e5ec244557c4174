package main

import (
	"context"
	"os"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logging"
	"app/internal/repository"

	"github.com/joho/godotenv"
)

// 初期商品データ
var products = []model.Product{
	{
		Name:        "Red Hoodie",
		Description: "Warm and cozy hoodie for winter",
		Price:       799.99,
		Stock:       25,
		Category:    "clothing",
		ImageURL:    "https://example.com/images/red-hoodie.png",
	},
	{
		Name:        "Bluetooth Speaker",
		Description: "Loud and clear portable speaker",
		Price:       1499.00,
		Stock:       15,
		Category:    "electronics",
		ImageURL:    "https://example.com/images/speaker.png",
	},
	{
		Name:        "Running Shoes",
		Description: "Lightweight running shoes for daily jogs",
		Price:       2199.50,
		Stock:       40,
		Category:    "footwear",
		ImageURL:    "https://example.com/images/shoes.png",
	},
	{
		Name:        "Notebook Set",
		Description: "Set of 5 ruled notebooks",
		Price:       299.00,
		Stock:       100,
		Category:    "stationery",
		ImageURL:    "https://example.com/images/notebooks.png",
	},
	{
		Name:        "LED Desk Lamp",
		Description: "Adjustable lamp with touch control",
		Price:       899.75,
		Stock:       30,
		Category:    "home",
		ImageURL:    "https://example.com/images/lamp.png",
	},
}

// 商品の初期投入。何度実行しても同じ商品は1回しか入らない
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	gormDB, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Error("db_connect_failed", "error", err.Error())
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(&model.Product{}); err != nil {
		logger.Error("migrate_failed", "error", err.Error())
		os.Exit(1)
	}

	productRepo := infraRepo.NewProductGormRepository(gormDB)

	created := 0
	for _, p := range products {
		_, err := productRepo.FindByName(ctx, p.Name)
		if err == nil {
			continue
		}
		if err != repository.ErrNotFound {
			logger.Error("seed_lookup_failed", "name", p.Name, "error", err.Error())
			os.Exit(1)
		}

		if _, err := productRepo.Create(ctx, p); err != nil {
			logger.Error("seed_create_failed", "name", p.Name, "error", err.Error())
			os.Exit(1)
		}
		created++
	}

	logger.Info("seed_done", "created", created, "total", len(products))
}
