// Package testutil provides an in-memory database for service and
// repository tests. Production runs on PostgreSQL with SQL migrations;
// tests auto-migrate the models onto SQLite instead.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

var dbSeq int64

// OpenDB returns a fresh in-memory database with the full schema. Each
// call gets its own named memory database so pooled connections see the
// same data and parallel tests stay isolated.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&model.Project{},
		&model.Revision{},
		&model.CostPosition{},
		&model.MaterialComponent{},
		&model.LaborComponent{},
		&model.LibraryPosition{},
		&model.LibraryMaterialComponent{},
		&model.LibraryLaborComponent{},
		&model.Supplier{},
		&model.Subcontractor{},
		&model.SupplierPrice{},
		&model.SubcontractorRate{},
		&model.LaborType{},
		&model.Agreement{},
		&model.AgreementLine{},
		&model.PurchaseOrder{},
		&model.OrderLine{},
		&model.SourceLink{},
		&model.DeliveryRecord{},
		&model.DeliveryLine{},
		&model.ExecutionRecord{},
		&model.RealizationEntry{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}
