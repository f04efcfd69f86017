package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/email"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	financeService "github.com/cmlabs-hris/payroll-engine-go/internal/service/finance"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	profile, err := config.LoadJurisdictionProfile(cfg.Statutory.ProfilePath)
	if err != nil {
		log.Fatal("Failed to load statutory profile:", err)
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	payrollRepo := postgresql.NewPayrollRepository(db)
	requestRepo := postgresql.NewFinancialRequestRepository(db)
	directory := postgresql.NewEmployeeDirectory(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	notifier, err := email.NewNotificationService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize notification service:", err)
	}

	ledgerSvc := financeService.NewLedgerService(requestRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, directory, ledgerSvc, profile, notifier)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("payroll-reconciliation", time.Hour, payrollSvc.ReconcileOutstanding)
	scheduler.Start()
	defer scheduler.Stop()

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	financeHandler := appHTTP.NewFinanceHandler(ledgerSvc)

	router := appHTTP.NewRouter(jwtService, payrollHandler, financeHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
