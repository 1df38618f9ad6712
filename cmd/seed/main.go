// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"procura/internal/core/id"
	"procura/internal/core/types"
	"procura/internal/domain/catalogs/product"
	"procura/internal/domain/catalogs/vendor"
	"procura/internal/domain/documents/purchase_order"
	"procura/internal/infrastructure/numerator"
	"procura/internal/infrastructure/storage/postgres"
	"procura/internal/infrastructure/storage/postgres/catalog_repo"
	"procura/internal/infrastructure/storage/postgres/document_repo"
	"procura/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@procura.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM sys_users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO sys_users (id, email, password_hash, is_active, roles, created_at, updated_at)
		VALUES ($1, $2, $3, true, $4, $5, $5)
	`, id.New(), adminEmail, string(passwordHash), []string{"admin"}, now)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	txManager := postgres.NewTxManager(pool)
	gen := numerator.New(pool)

	vendorRepo := catalog_repo.NewVendorRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	orderRepo := document_repo.NewPurchaseOrderRepo(txManager)
	receiveRepo := document_repo.NewPurchaseReceiveRepo(txManager)

	vendorService := vendor.NewService(vendorRepo, gen)
	productService := product.NewService(productRepo, gen)
	orderService := purchase_order.NewService(orderRepo, receiveRepo, gen, txManager)

	// --- Vendors ---
	vendors := []*vendor.Vendor{}
	for _, name := range []string{"Acme Supplies", "Global Parts Co", "Northwind Traders"} {
		v := vendor.NewVendor("", name)
		if err := vendorService.Create(ctx, v); err != nil {
			return fmt.Errorf("create vendor %q: %w", name, err)
		}
		vendors = append(vendors, v)
		log.Infow("vendor created", "code", v.Code, "name", v.Name)
	}

	// --- Products ---
	type productSeed struct {
		name  string
		sku   string
		price string
	}
	seeds := []productSeed{
		{"Wireless Mouse", "B00WM-0001", "24.99"},
		{"USB-C Hub", "B00UC-0002", "49.90"},
		{"Laptop Stand", "B00LS-0003", "35.00"},
	}
	products := []*product.Product{}
	for _, ps := range seeds {
		price, err := types.NewMoneyFromString(ps.price)
		if err != nil {
			return fmt.Errorf("parse price %q: %w", ps.price, err)
		}
		p := product.NewProduct("", ps.name, ps.sku, price)
		if err := productService.Create(ctx, p); err != nil {
			return fmt.Errorf("create product %q: %w", ps.name, err)
		}
		products = append(products, p)
		log.Infow("product created", "code", p.Code, "sku", p.SKU)
	}

	// --- Purchase order ---
	order := purchase_order.NewPurchaseOrder(vendors[0].ID, purchase_order.TermNet30)
	order.Date = time.Now()
	for _, p := range products {
		order.AddLine(p.Name, p.SKU, 10, p.DefaultPrice)
	}
	if err := orderService.Create(ctx, order); err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	if _, err := orderService.Approve(ctx, order.ID); err != nil {
		return fmt.Errorf("approve purchase order: %w", err)
	}
	log.Infow("purchase order created", "number", order.Number, "lines", len(order.Lines))

	return nil
}
