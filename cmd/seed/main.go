package main

import (
	"github.com/threadway-shop/internal/config"
	"github.com/threadway-shop/internal/logger"
	"github.com/threadway-shop/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 添加商品
	products := []models.Product{
		{
			Slug:        "classic-crewneck-tee",
			Name:        "Classic Crewneck Tee",
			Description: "Soft combed cotton tee with a relaxed everyday fit.",
			Price:       models.NewMoneyFromFloat(24.90),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800",
			}),
			Sizes:     models.StringArray([]string{"S", "M", "L", "XL"}),
			Colors:    models.StringArray([]string{"white", "black", "navy"}),
			IsActive:  true,
			SortOrder: 10,
		},
		{
			Slug:          "heavyweight-hoodie",
			Name:          "Heavyweight Fleece Hoodie",
			Description:   "400gsm brushed fleece hoodie with double-lined hood.",
			Price:         models.NewMoneyFromFloat(69.00),
			DiscountPrice: moneyPtr(54.00),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=800",
			}),
			Sizes:     models.StringArray([]string{"S", "M", "L", "XL", "XXL"}),
			Colors:    models.StringArray([]string{"heather-grey", "black"}),
			IsActive:  true,
			SortOrder: 20,
		},
		{
			Slug:        "slim-selvedge-jeans",
			Name:        "Slim Selvedge Jeans",
			Description: "Japanese selvedge denim, slim taper, button fly.",
			Price:       models.NewMoneyFromFloat(128.00),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1542272604-787c3835535d?w=800",
			}),
			Sizes:     models.StringArray([]string{"28", "30", "32", "34", "36"}),
			Colors:    models.StringArray([]string{"indigo", "washed-black"}),
			IsActive:  true,
			SortOrder: 30,
		},
		{
			Slug:        "canvas-weekender",
			Name:        "Canvas Weekender Bag",
			Description: "Waxed canvas duffel with leather trim, fits most overhead bins.",
			Price:       models.NewMoneyFromFloat(96.50),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800",
			}),
			Colors:    models.StringArray([]string{"olive", "tan"}),
			IsActive:  true,
			SortOrder: 40,
		},
		{
			Slug:          "merino-beanie",
			Name:          "Merino Wool Beanie",
			Description:   "One-size ribbed beanie in extra-fine merino.",
			Price:         models.NewMoneyFromFloat(32.00),
			DiscountPrice: moneyPtr(25.00),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1576871337622-98d48d1cf531?w=800",
			}),
			Colors:    models.StringArray([]string{"charcoal", "rust", "forest"}),
			IsActive:  true,
			SortOrder: 50,
		},
		{
			Slug:        "linen-camp-shirt",
			Name:        "Linen Camp Collar Shirt",
			Description: "Breathable linen shirt with open camp collar.",
			Price:       models.NewMoneyFromFloat(58.00),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1596755094514-f87e34085b2c?w=800",
			}),
			Sizes:     models.StringArray([]string{"S", "M", "L"}),
			Colors:    models.StringArray([]string{"sand", "sage"}),
			IsActive:  false,
			SortOrder: 60,
		},
	}

	for _, p := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", p.Slug).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", p.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", p.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", p.Slug)
		}
	}

	stdLog.Printf("Seed completed")
}

func moneyPtr(amount float64) *models.Money {
	m := models.NewMoneyFromFloat(amount)
	return &m
}
