// Command admin_seed bootstraps a fresh installation: it creates the admin
// account and, unless one exists already, a sample issuer so the catalog is
// browsable out of the box.
package main

import (
	"context"
	"log"
	"os"

	"finbridge/internal/config"
	"finbridge/internal/models"
	"finbridge/internal/repositories"
	"finbridge/internal/services/catalog"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedAdmin(adminEmail, adminPassword, adminPhone)
	seedSampleIssuer()
}

func seedAdmin(email, password, phone string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		Password:     string(hashed),
		Phone:        phone,
		Role:         "admin",
		TokenVersion: 1,
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	log.Println("✅ Admin account created successfully!")
}

func seedSampleIssuer() {
	var count int64
	if err := repositories.DB.Model(&models.Issuer{}).Count(&count).Error; err != nil {
		log.Fatal("Failed to count issuers:", err)
	}
	if count > 0 {
		log.Println("Catalog already has issuers, skipping sample data")
		return
	}

	maxDeposit := decimal.NewFromInt(50000000)
	effectiveYield := 803

	issuer := &models.Issuer{
		Code:            "SFL",
		LegalName:       "Sundaram Finance Limited",
		DisplayName:     "Sundaram Finance",
		Category:        models.CategoryNBFC,
		RatingAgency:    "CRISIL",
		RatingGrade:     "AAA",
		MinDeposit:      decimal.NewFromInt(10000),
		MaxDeposit:      &maxDeposit,
		PrematurePolicy: "Withdrawal permitted after 3 months with a 200 bps rate reduction",
		IsActive:        true,
		Schemes: models.SchemeList{
			{
				Name:               "Cumulative Deposit",
				IsCumulative:       true,
				AllowedFrequencies: []models.PayoutFrequency{models.PayoutOnMaturity},
				LockInMonths:       3,
				PrematureAllowed:   true,
				PrematureTerms:     "200 bps reduction on the applicable rate after the lock-in",
				MinTenureMonths:    12,
				MaxTenureMonths:    60,
				SeniorBonusBps:     50,
				WomenBonusBps:      25,
				TDSApplicable:      true,
				Form15GHAvailable:  true,
				IsActive:           true,
				RateSlabs: []models.RateSlab{
					{MinTenureMonths: 12, MaxTenureMonths: 23, PayoutFrequency: models.PayoutOnMaturity, BaseRateBps: 720, IsActive: true},
					{MinTenureMonths: 24, MaxTenureMonths: 35, PayoutFrequency: models.PayoutOnMaturity, BaseRateBps: 750, IsActive: true},
					{MinTenureMonths: 36, MaxTenureMonths: 60, PayoutFrequency: models.PayoutOnMaturity, BaseRateBps: 775, EffectiveYieldBps: &effectiveYield, IsActive: true},
				},
			},
			{
				Name:         "Non-Cumulative Deposit",
				IsCumulative: false,
				AllowedFrequencies: []models.PayoutFrequency{
					models.PayoutMonthly, models.PayoutQuarterly,
				},
				MinTenureMonths:   12,
				MaxTenureMonths:   60,
				SeniorBonusBps:    50,
				TDSApplicable:     true,
				Form15GHAvailable: true,
				IsActive:          true,
				RateSlabs: []models.RateSlab{
					{MinTenureMonths: 12, MaxTenureMonths: 60, PayoutFrequency: models.PayoutMonthly, BaseRateBps: 700, IsActive: true},
					{MinTenureMonths: 12, MaxTenureMonths: 60, PayoutFrequency: models.PayoutQuarterly, BaseRateBps: 710, IsActive: true},
				},
			},
		},
	}

	issuerRepo := repositories.NewIssuerRepository(repositories.DB)
	receiptRepo := repositories.NewReceiptRepository(repositories.DB)
	catalogService := catalog.NewService(issuerRepo, repositories.CacheService, receiptRepo)

	if _, err := catalogService.CreateIssuer(context.Background(), issuer); err != nil {
		log.Fatal("Failed to seed sample issuer:", err)
	}
	log.Println("✅ Sample issuer seeded successfully!")
}
