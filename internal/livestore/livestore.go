// Package livestore keeps snapshots of fuel prices from a live source in SQLite.
package livestore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gocarina/gocsv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// FuelPriceSnapshot is one observed unit price of a fuel, p/kWh.
type FuelPriceSnapshot struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	FuelCode  int       `gorm:"index;column:fuel_code" csv:"fuel_code"`
	Price     float64   `gorm:"column:price" csv:"price"`
	Source    string    `gorm:"column:source" csv:"source"`
	FetchedAt time.Time `gorm:"index;column:fetched_at" csv:"-"`
}

type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&FuelPriceSnapshot{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save stores snapshots. A zero FetchedAt is set to now.
func (s *Store) Save(ctx context.Context, snaps ...FuelPriceSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	now := time.Now()
	for i := range snaps {
		if snaps[i].Price < 0 {
			return fmt.Errorf("fuel %d: negative price %g", snaps[i].FuelCode, snaps[i].Price)
		}
		if snaps[i].FetchedAt.IsZero() {
			snaps[i].FetchedAt = now
		}
	}
	return s.db.WithContext(ctx).Create(&snaps).Error
}

// List returns every snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]FuelPriceSnapshot, error) {
	var snaps []FuelPriceSnapshot
	err := s.db.WithContext(ctx).Order("fetched_at desc, id desc").Find(&snaps).Error
	return snaps, err
}

// Latest is the newest price of every fuel code, p/kWh.
func (s *Store) Latest(ctx context.Context) (map[int]float64, error) {
	snaps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	prices := make(map[int]float64)
	for _, snap := range snaps {
		if _, ok := prices[snap.FuelCode]; !ok {
			prices[snap.FuelCode] = snap.Price
		}
	}
	return prices, nil
}

// ImportCSV saves the rows of a fuel_code,price,source CSV as snapshots fetched now.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	var snaps []FuelPriceSnapshot
	if err := gocsv.Unmarshal(r, &snaps); err != nil {
		return 0, err
	}
	if err := s.Save(ctx, snaps...); err != nil {
		return 0, err
	}
	return len(snaps), nil
}
