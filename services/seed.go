package services

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
)

// SeedManagerFromEnv creates the first manager from MANAGER_EMAIL,
// MANAGER_PASSWORD and MANAGER_NAME. It does nothing when the variables are
// unset or a manager already exists.
func SeedManagerFromEnv(db *gorm.DB) error {
	email := os.Getenv("MANAGER_EMAIL")
	password := os.Getenv("MANAGER_PASSWORD")
	name := os.Getenv("MANAGER_NAME")

	if email == "" || password == "" {
		return nil
	}
	if name == "" {
		name = "Manager"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleManager).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		zap.L().Info("[SEED] Manager user already exists, skipping seed")
		return nil
	}

	user, err := CreateUser(db, CreateUserInput{Name: name, Email: email, Password: password, Role: models.RoleManager})
	if err != nil {
		if IsCode(err, CodeConflict) {
			zap.L().Info("[SEED] User with this email already exists, skipping manager seed", zap.String("email", email))
			return nil
		}
		return err
	}

	zap.L().Info("[SEED] Created manager user", zap.String("email", user.Email))
	return nil
}

// DemoPassword is the password of every demo account.
const DemoPassword = "password123"

type demoUser struct {
	name  string
	email string
	role  models.Role
}

var demoUsers = []demoUser{
	{"山田 太郎", "yamada@example.com", models.RoleSales},
	{"佐藤 花子", "sato@example.com", models.RoleSales},
	{"鈴木 部長", "suzuki@example.com", models.RoleManager},
}

var demoCustomers = []models.Customer{
	{CompanyName: "株式会社ABC商事", ContactName: "田中 一郎", Address: strPtr("東京都千代田区丸の内1-1-1"), Phone: strPtr("03-1234-5678"), Email: strPtr("tanaka@abc.example.com")},
	{CompanyName: "XYZ工業株式会社", ContactName: "高橋 次郎", Address: strPtr("大阪府大阪市北区梅田2-2-2"), Phone: strPtr("06-2345-6789")},
	{CompanyName: "合同会社みらい", ContactName: "伊藤 三奈", Email: strPtr("ito@mirai.example.com")},
	{CompanyName: "さくらシステムズ", ContactName: "渡辺 四郎", Phone: strPtr("045-345-6789")},
}

// SeedDemoData fills an empty database with demo users, customers and a few
// reports in each status. It refuses to run when any user exists.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		zap.L().Info("[SEED] Users already exist, skipping demo data")
		return nil
	}

	users := make(map[string]*models.User, len(demoUsers))
	for _, u := range demoUsers {
		user, err := CreateUser(db, CreateUserInput{Name: u.name, Email: u.email, Password: DemoPassword, Role: u.role})
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
		users[u.email] = user
	}

	customers := make([]models.Customer, len(demoCustomers))
	copy(customers, demoCustomers)
	if err := db.Create(&customers).Error; err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	sales := users["yamada@example.com"]
	manager := users["suzuki@example.com"]
	today := models.NormalizeDate(time.Now())
	at := func(hhmm string) time.Time {
		t, _ := models.ParseVisitTime(hhmm)
		return t
	}

	reviewed, err := CreateReport(db, sales, &ReportInput{
		ReportDate: today.AddDate(0, 0, -2),
		Problem:    strPtr("ABC商事の見積もり金額について相談したいです。"),
		Plan:       strPtr("XYZ工業へ提案書を送付する。"),
		Status:     models.ReportStatusSubmitted,
		Visits: []VisitInput{
			{CustomerID: customers[0].ID, VisitContent: "新商品の提案を行った。", VisitedAt: at("10:00")},
			{CustomerID: customers[1].ID, VisitContent: "定期訪問。要望をヒアリングした。", VisitedAt: at("14:30")},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to seed report: %w", err)
	}
	if _, err := CreateComment(db, manager, reviewed.ID, dto.CommentRequest{
		Target:  models.CommentTargetProblem,
		Content: "値引きは10%までで調整してください。",
	}); err != nil {
		return err
	}
	if _, err := ReviewReport(db, manager, reviewed.ID); err != nil {
		return fmt.Errorf("failed to review seeded report: %w", err)
	}

	if _, err := CreateReport(db, sales, &ReportInput{
		ReportDate: today.AddDate(0, 0, -1),
		Plan:       strPtr("みらい社との打ち合わせ準備。"),
		Status:     models.ReportStatusSubmitted,
		Visits: []VisitInput{
			{CustomerID: customers[2].ID, VisitContent: "初回訪問。会社紹介を行った。", VisitedAt: at("11:00")},
		},
	}); err != nil {
		return fmt.Errorf("failed to seed report: %w", err)
	}

	if _, err := CreateReport(db, sales, &ReportInput{
		ReportDate: today,
		Status:     models.ReportStatusDraft,
		Visits: []VisitInput{
			{CustomerID: customers[3].ID, VisitContent: "システム更改の相談を受けた。", VisitedAt: at("09:30")},
		},
	}); err != nil {
		return fmt.Errorf("failed to seed report: %w", err)
	}

	zap.L().Info("[SEED] Created demo data",
		zap.Int("users", len(demoUsers)),
		zap.Int("customers", len(customers)),
	)
	return nil
}

func strPtr(s string) *string {
	return &s
}
