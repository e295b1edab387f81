package history

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ethanbaker/chatwidget/pkg/utils"
	"github.com/go-sql-driver/mysql"
)

// Blob store kinds selectable with TRANSCRIPT_STORE
const (
	KindFile   = "file"
	KindPebble = "pebble"
	KindMySql  = "mysql"
	KindMemory = "memory"
)

// DefaultPath is the directory used by the file and pebble stores when TRANSCRIPT_PATH is unset
const DefaultPath = ".chatwidget"

// MySqlDSN builds a MySQL connection string from the MYSQL_* settings
func MySqlDSN(cfg *utils.Config) string {
	dbConfig := mysql.Config{
		User:                 cfg.Get("MYSQL_USERNAME"),
		Passwd:               cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%s", cfg.GetWithDefault("MYSQL_HOST", "127.0.0.1"), cfg.GetWithDefault("MYSQL_PORT", "3306")),
		DBName:               cfg.Get("MYSQL_DATABASE"),
		ParseTime:            true,
		AllowNativePasswords: true,
	}
	return dbConfig.FormatDSN()
}

// OpenBlobStore opens the blob store selected by TRANSCRIPT_STORE (file by default)
func OpenBlobStore(cfg *utils.Config) (BlobStore, error) {
	path := cfg.GetWithDefault("TRANSCRIPT_PATH", DefaultPath)

	switch kind := strings.ToLower(cfg.GetWithDefault("TRANSCRIPT_STORE", KindFile)); kind {
	case KindFile:
		return NewFileBlobStore(path)
	case KindPebble:
		return NewPebbleBlobStore(filepath.Join(path, "pebble"))
	case KindMySql:
		return NewMySqlBlobStore(MySqlDSN(cfg))
	case KindMemory:
		return NewInMemoryBlobStore(), nil
	default:
		return nil, fmt.Errorf("unknown transcript store %q", kind)
	}
}

// OpenStore opens the configured blob store for the TRANSCRIPT_PROFILE profile
func OpenStore(cfg *utils.Config) (*Store, error) {
	blobs, err := OpenBlobStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewStore(blobs, cfg.Get("TRANSCRIPT_PROFILE")), nil
}
