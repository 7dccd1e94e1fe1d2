package database

import (
	"log"

	"autoflix-backend/internal/config"
	"autoflix-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: Şemayı kurar. Testler sqlite in-memory DB ile aynı fonksiyonu kullanır.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.MembershipLevel{},
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.BranchStock{},
		&models.Order{},
		&models.OrderLine{},
		&models.Supplier{},
		&models.SupplierProduct{},
		&models.BranchOrder{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// Negatif stok hiçbir commit edilmiş durumda görünmemeli; conditional
	// update disiplinine ek olarak veritabanı da reddetsin
	if db.Dialector.Name() == "postgres" {
		db.Exec("ALTER TABLE branch_stocks DROP CONSTRAINT IF EXISTS chk_branch_stocks_quantity")
		if err := db.Exec("ALTER TABLE branch_stocks ADD CONSTRAINT chk_branch_stocks_quantity CHECK (quantity >= 0)").Error; err != nil {
			log.Printf("Stok CHECK constraint eklenirken hata (devam ediliyor): %v", err)
		}
	}

	return nil
}
