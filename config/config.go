package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName       string `json:"appname"`
	AppEnv        string `json:"appenv"`
	AppPort       uint16 `json:"appport"`
	GinMode       string `json:"ginmode"`
	DBHost        string `json:"dbhost"`
	DBPort        uint16 `json:"dbport"`
	DBName        string `json:"dbname"`
	DBUSER        string `json:"dbuser"`
	DBPass        string `json:"dbpass"`
	MLImageURL    string `json:"mlimageurl"`
	MLSymptomURL  string `json:"mlsymptomurl"`
	UploadLimitMB int64  `json:"uploadlimitmb"`
	ReportDir     string `json:"reportdir"`
	ImageRoot     string `json:"imageroot"`
	DiseaseSeed   string `json:"diseaseseed"`
	AliasSeed     string `json:"aliasseed"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// A missing .env file is fine in containerized deployments where the
		// environment is injected directly.
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

		uploadLimit, _ := strconv.ParseInt(os.Getenv("UPLOADLIMITMB"), 10, 64)
		if uploadLimit <= 0 {
			uploadLimit = 10
		}

		config = &Config{
			AppName:       os.Getenv("APPNAME"),
			AppEnv:        os.Getenv("APPENV"),
			AppPort:       uint16(appPort),
			GinMode:       os.Getenv("GINMODE"),
			DBHost:        os.Getenv("DBHOST"),
			DBPort:        uint16(dbPort),
			DBName:        os.Getenv("DBNAME"),
			DBUSER:        os.Getenv("DBUSER"),
			DBPass:        os.Getenv("DBPASS"),
			MLImageURL:    os.Getenv("ML_IMAGE_URL"),
			MLSymptomURL:  os.Getenv("ML_SYMPTOM_URL"),
			UploadLimitMB: uploadLimit,
			ReportDir:     os.Getenv("REPORTDIR"),
			ImageRoot:     os.Getenv("IMAGEROOT"),
			DiseaseSeed:   os.Getenv("DISEASESEED"),
			AliasSeed:     os.Getenv("ALIASSEED"),
		}
	})
	return config
}

// ConnectMySQL establishes a connection to a MySQL database using the
// configuration values. In the test environment it opens a shared in-memory
// SQLite database instead so tests never need a running MySQL server.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()
	if cfg.AppEnv == "test" {
		return gorm.Open(sqlite.Open("file:testdb_config?mode=memory&cache=shared"), &gorm.Config{})
	}

	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
