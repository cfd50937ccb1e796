package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gerejaku_backend/internals/configs"
	attendanceModel "gerejaku_backend/internals/features/attendance/model"
	groupModel "gerejaku_backend/internals/features/groups/model"
	memberModel "gerejaku_backend/internals/features/members/model"
	serviceTypeModel "gerejaku_backend/internals/features/service_types/model"
)

var DB *gorm.DB

// ConnectDB membuka koneksi sesuai DB_DRIVER:
// - sqlite   → file lokal (development)
// - postgres → DSN dari ENV (production)
func ConnectDB() {
	var (
		db  *gorm.DB
		err error
	)

	cfg := &gorm.Config{Logger: configs.NewGormLogger()}

	switch configs.DBDriver {
	case "postgres", "postgresql":
		log.Println("🔌 Koneksi ke PostgreSQL...")
		sslmode := configs.GetEnv("DB_SSLMODE", "disable")
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=gerejaku",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			configs.GetEnv("DB_PORT", "5432"),
			os.Getenv("DB_NAME"),
			sslmode,
		)
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
		}), cfg)

	default:
		path := configs.GetEnv("DB_PATH", "./database.sqlite")
		log.Printf("🔌 Koneksi ke SQLite (%s)...", path)
		if dir := filepath.Dir(path); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		// busy_timeout: tunggu lock, foreign_keys: aktifkan FK di SQLite
		db, err = gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_foreign_keys=on"), cfg)
	}

	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	if configs.DBDriver == "sqlite" {
		// satu statement pada satu waktu (shared handle)
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate membuat/menyesuaikan seluruh tabel.
func Migrate() {
	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("❌ Gagal migrasi DB: %v", err)
	}
	log.Println("✅ Tabel dibuat/diverifikasi.")
}

// AutoMigrate dipisah supaya bisa dipakai test DB in-memory.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&memberModel.MemberModel{},
		&groupModel.GroupModel{},
		&groupModel.GroupMemberModel{},
		&serviceTypeModel.ServiceTypeModel{},
		&attendanceModel.AttendanceModel{},
	)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
