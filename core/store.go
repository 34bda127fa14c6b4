package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evilsocket/islazy/fs"
	"github.com/evilsocket/islazy/log"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Roysten/solar-push/models"
)

const mysqlScheme = "mysql://"

// Store is the gorm backed table of solar samples.
type Store struct {
	db *gorm.DB
}

// OpenStore opens an existing sample store. Locations starting with mysql://
// are treated as a MySQL DSN, anything else as the path of a SQLite database.
func OpenStore(location string) (*Store, error) {
	return openStore(location, false)
}

// OpenStoreForMigration is like OpenStore but allows the SQLite database file
// to be created.
func OpenStoreForMigration(location string) (*Store, error) {
	return openStore(location, true)
}

func openStore(location string, create bool) (*Store, error) {
	dialector, err := dialectorFor(location, create)
	if err != nil {
		return nil, &StorageError{Op: "opening store", Err: err}
	}
	return NewStore(dialector)
}

func dialectorFor(location string, create bool) (gorm.Dialector, error) {
	if location == "" {
		return nil, errors.New("empty store location")
	}

	if strings.HasPrefix(location, mysqlScheme) {
		return mysql.Open(strings.TrimPrefix(location, mysqlScheme)), nil
	}

	path, err := fs.Expand(location)
	if err != nil {
		return nil, fmt.Errorf("could not expand %s: %v", location, err)
	}

	if !create && !fs.Exists(path) {
		return nil, fmt.Errorf("%s does not exist", path)
	}

	return sqlite.Open(path), nil
}

// NewStore wraps an already configured gorm dialector.
func NewStore(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, &StorageError{Op: "opening store", Err: err}
	}

	log.Debug("connected to the sample store (%s)", db.Dialector.Name())

	return &Store{db: db}, nil
}

// Migrate creates or updates the samples table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&models.Sample{}); err != nil {
		return &StorageError{Op: "migrating schema", Err: err}
	}
	return nil
}

// SelectPending returns up to limit samples of the given tracker that were
// not uploaded yet, oldest first. An empty slice means nothing is left.
func (s *Store) SelectPending(deviceID, trackerID uint8, limit int) ([]models.Sample, error) {
	var samples []models.Sample

	err := s.db.
		Where("uploaded = ? AND device_id = ? AND tracker_id = ?", false, deviceID, trackerID).
		Order("id").
		Limit(limit).
		Find(&samples).Error
	if err != nil {
		return nil, &StorageError{
			Op:  fmt.Sprintf("selecting pending samples for %d/%d", deviceID, trackerID),
			Err: err,
		}
	}

	return samples, nil
}

// MarkUploaded flags exactly the given ids as uploaded with a single update.
func (s *Store) MarkUploaded(ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Sample{}).
			Where("id IN ?", ids).
			Update("uploaded", true).Error
	})
	if err != nil {
		return &StorageError{
			Op:  fmt.Sprintf("marking %d samples as uploaded", len(ids)),
			Err: err,
		}
	}

	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
