//go:build integration

package mock

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/quickmate/backend/internal/infra/db"
)

var once sync.Once
var database *Db

type Db struct {
	Database *db.Database
	DbConn   *gorm.DB
	models   map[string]any
	order    []string
}

// NewDb opens the shared in-memory database once and migrates the given models.
// order lists the tables in the order they are cleared.
func NewDb(models map[string]any, order []string) *Db {
	once.Do(func() {
		database = open(models, order)
	})
	return database
}

func open(models map[string]any, order []string) *Db {
	conn, err := db.NewInMemorySQLite()
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	newDbMock := &Db{
		Database: conn,
		DbConn:   conn.DB(),
		models:   models,
		order:    order,
	}

	modelList := make([]any, 0, len(order))
	for _, table := range order {
		modelList = append(modelList, models[table])
	}
	if err := conn.AutoMigrate(modelList...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	if err := newDbMock.ClearDB(); err != nil {
		panic(fmt.Sprintf("failed to clear database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB deletes every row of every managed table.
func (d *Db) ClearDB() error {
	for _, table := range d.order {
		model := d.models[table]
		if !d.DbConn.Migrator().HasTable(model) {
			return fmt.Errorf("table for model %T was not created", model)
		}
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
