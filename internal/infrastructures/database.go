package infrastructures

import (
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase() *gorm.DB {
	db, err := gorm.Open(postgres.Open(Config.DATABASE_URL), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&models.PaymentLink{}, &models.PaymentStatusHistory{}); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	return db
}
