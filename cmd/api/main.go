package main

import (
	"context"
	"os"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logging"
	"app/internal/mail"
	"app/internal/server"
	"app/internal/token"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	//DB接続
	gormDB, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Error("db_connect_failed", "error", err.Error())
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		logger.Error("migrate_failed", "error", err.Error())
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	tokens := token.NewService(cfg.JWTSecret)
	mailer := mail.NewResetMailer(mail.NewSendGridClient(cfg.SendGridAPIKey), cfg.MailFrom, cfg.ResetBaseURL)
	authValidator := validator.NewAuthValidator(userRepo)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, tokens, mailer, authValidator)
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager)

	//Handler生成
	h := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, tokens, userRepo),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, tokens, userRepo),
		Cart:         handler.NewCartHandler(cartUC, tokens, userRepo),
		Order:        handler.NewOrderHandler(orderUC, tokens, userRepo),
	}

	e := server.New(logger, h)

	addr := ":" + cfg.Port
	logger.Info("server_start", "addr", addr)
	if err := server.Start(e, addr); err != nil {
		logger.Error("server_stopped", "error", err.Error())
		os.Exit(1)
	}
}
