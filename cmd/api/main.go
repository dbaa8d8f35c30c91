package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "loantrackr-backend/internal/adapter/http"
	appmw "loantrackr-backend/internal/adapter/middleware"
	"loantrackr-backend/internal/adapter/repository/mysql"
	"loantrackr-backend/internal/config"
	"loantrackr-backend/internal/gateway"
	"loantrackr-backend/internal/infrastructure/cache"
	"loantrackr-backend/internal/infrastructure/db"
	ucApplication "loantrackr-backend/internal/usecase/application"
	ucPayment "loantrackr-backend/internal/usecase/payment"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	lenders := mysql.NewLenderRepository(gdb)
	apps := mysql.NewApplicationRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	gw := gateway.NewSimulator()

	appUC := ucApplication.NewUsecase(lenders, apps, tx, gw)
	payUC := ucPayment.NewUsecase(loans, tx, gw)

	h := httpadp.NewHandler()
	lh := httpadp.NewLenderHandler(appUC)
	ah := httpadp.NewApplicationHandler(appUC)
	ph := httpadp.NewPaymentHandler(payUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(appmw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.GET("/lenders", lh.ListLenders)
	e.GET("/lenders/:lender_id/emi-preview", lh.EmiPreview)

	e.POST("/loans/apply", ah.Apply)
	e.POST("/loans/withdraw", ah.Withdraw)
	e.GET("/loans/applications", ah.ListMine)

	e.POST("/applications/:application_id/approve", ah.Approve)
	e.POST("/applications/:application_id/reject", ah.Reject)
	e.POST("/applications/:application_id/disburse", ah.Disburse)
	e.GET("/lender/applications", ah.ListForLender)
	e.GET("/lender/loans", ph.ListLenderLoans)

	e.GET("/loans/:loan_id", ph.GetLoanDetails)
	e.GET("/loans/:loan_id/schedule", ph.GetSchedule)
	e.GET("/loans/:loan_id/payments", ph.GetPaymentHistory)
	e.POST("/loans/:loan_id/payments", ph.MakePayment)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
