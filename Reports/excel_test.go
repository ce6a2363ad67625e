package Reports

import (
	"bytes"
	"path/filepath"
	"testing"

	"Crane/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	return db
}

func TestInvoiceRegister(t *testing.T) {
	db := setupTestDB(t)

	project := Models.Project{Name: "Harbor House"}
	require.NoError(t, db.Create(&project).Error)

	paid := Models.Invoice{
		ProjectID: project.ID, Number: "INV-2026-0001", Status: "paid",
		Subtotal: 1000, TaxAmount: 100, Total: 1100, DueDate: "2026-07-01",
		Payments: []Models.Payment{{Amount: 1100, Method: "stripe"}},
	}
	open := Models.Invoice{
		ProjectID: project.ID, Number: "INV-2026-0002", Status: "sent",
		Subtotal: 500, TaxAmount: 50, Total: 550, DueDate: "2026-09-01",
	}
	require.NoError(t, db.Create(&paid).Error)
	require.NoError(t, db.Create(&open).Error)

	buf, err := InvoiceRegister(db, project.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Number", rows[0][0])
	assert.Equal(t, "Balance", rows[0][8])

	assert.Equal(t, "INV-2026-0001", rows[1][0])
	assert.Equal(t, "paid", rows[1][1])
	assert.Equal(t, "0", rows[1][8])

	assert.Equal(t, "INV-2026-0002", rows[2][0])
	assert.Equal(t, "550", rows[2][8])
}

func TestInvoiceRegisterUnknownProject(t *testing.T) {
	db := setupTestDB(t)

	_, err := InvoiceRegister(db, 42)
	assert.ErrorContains(t, err, "project not found")
}
