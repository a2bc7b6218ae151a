package db

import (
	"catena/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.SupplyAgreement{},
		&models.SupplyRequest{},
		&models.UpliftOrder{},
		&models.LocationPing{},
		&models.RequestRevision{},
	)
}
