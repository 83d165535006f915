package sqlitedb

import (
	"fmt"
	"testing"

	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/domain/wallet"
	"p2p-lending/internal/infrastructure/db"
	"p2p-lending/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a migrated, private in-memory database. A single connection
// serializes transactions the way row locks do on a server database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", id.NewID32())
	gdb, err := db.OpenGormWithDialector(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// SeedUser inserts a user with a wallet holding balance and returns its
// public id.
func SeedUser(t testing.TB, gdb *gorm.DB, username string, role user.Role, balance string) string {
	t.Helper()
	u := &user.User{UserID: id.NewID32(), Username: username, Role: role}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	w := wallet.New(u.UserID, "")
	w.Balance = decimal.RequireFromString(balance)
	if err := gdb.Create(w).Error; err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return u.UserID
}

// Balance reads a wallet balance outside any transaction.
func Balance(t testing.TB, gdb *gorm.DB, userID string) decimal.Decimal {
	t.Helper()
	var w wallet.Wallet
	if err := gdb.Where("user_id = ?", userID).First(&w).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	return w.Balance
}
