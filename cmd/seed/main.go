package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"laborhub/internal/config"
	"laborhub/internal/database"
	"laborhub/internal/domain"
	"laborhub/internal/domain/account"
	"laborhub/internal/domain/booking"
	"laborhub/internal/domain/subscription"
	jwtsvc "laborhub/internal/pkg/jwt"
	"laborhub/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog := logger.Must(cfg.AppEnv)

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{"reviews", "notifications", "payments", "bookings", "subscriptions", "labors", "customers"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	ctx := context.Background()
	accounts := account.NewRepository(db)
	subs := subscription.NewService(
		subscription.NewRepository(db),
		booking.NewRepository(db),
		subscription.DefaultPlans(),
		cfg.DefaultCompanyFee,
		zlog,
	)
	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Creating labors...")
	labors := []domain.Labor{
		{Name: "Aziz Karimov", Email: "aziz@laborhub.local", SkillCategory: domain.SkillPlumber, PaymentType: domain.PaymentTypeHourly, Rate: 500},
		{Name: "Bella Ortiz", Email: "bella@laborhub.local", SkillCategory: domain.SkillPainter, PaymentType: domain.PaymentTypeDaily, Rate: 4000},
		{Name: "Chen Wei", Email: "chen@laborhub.local", SkillCategory: domain.SkillElectrician, PaymentType: domain.PaymentTypeHourly, Rate: 750},
		{Name: "Dmitri Volkov", Email: "dmitri@laborhub.local", SkillCategory: domain.SkillCarpenter, PaymentType: domain.PaymentTypeDaily, Rate: 5200},
		{Name: "Emeka Obi", Email: "emeka@laborhub.local", SkillCategory: domain.SkillCleaner, PaymentType: domain.PaymentTypeHourly, Rate: 300},
	}
	for i := range labors {
		labors[i].Phone = fmt.Sprintf("+1 555 010 %04d", i+1)
		labors[i].PasswordHash = string(hash)
		if err := accounts.CreateLabor(ctx, &labors[i]); err != nil {
			log.Fatalf("create labor %s: %v", labors[i].Email, err)
		}
		token, err := tokens.GenerateToken(labors[i].ID, domain.RoleLabor)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("labor #%d %s (%s, %s %.0f)\n  token: %s",
			labors[i].ID, labors[i].Name, labors[i].SkillCategory, labors[i].PaymentType, labors[i].Rate, token)
	}

	log.Println("Creating customers...")
	customers := []domain.Customer{
		{Name: "Dana Smith", Email: "dana@mail.local"},
		{Name: "Farid Aliyev", Email: "farid@mail.local"},
		{Name: "Grace Lee", Email: "grace@mail.local"},
	}
	for i := range customers {
		customers[i].Phone = fmt.Sprintf("+1 555 020 %04d", i+1)
		customers[i].PasswordHash = string(hash)
		if err := accounts.CreateCustomer(ctx, &customers[i]); err != nil {
			log.Fatalf("create customer %s: %v", customers[i].Email, err)
		}
		if _, _, err := subs.AssignDefault(ctx, customers[i].ID); err != nil {
			log.Fatalf("assign plan to %s: %v", customers[i].Email, err)
		}
		token, err := tokens.GenerateToken(customers[i].ID, domain.RoleCustomer)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("customer #%d %s\n  token: %s", customers[i].ID, customers[i].Name, token)
	}

	// one premium customer to exercise the lower fee
	if _, err := subs.Upgrade(ctx, customers[len(customers)-1].ID, string(domain.PlanPremium)); err != nil {
		log.Fatalf("upgrade: %v", err)
	}

	log.Println("Seed completed. Password for every account: password123")
}
