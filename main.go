package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	api "github.com/platefeed/platefeed-backend/api"
	"github.com/platefeed/platefeed-backend/database"
	"github.com/platefeed/platefeed-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_NAME", "platefeed"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_SSLMODE", "disable"),
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// gen_random_uuid() needs pgcrypto on older PostgreSQL versions
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		fmt.Printf("Error enabling pgcrypto extension: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	// One-shot reference data imports, then exit
	if path := os.Getenv("IMPORT_INGREDIENTS"); path != "" {
		importIngredients(currentDB, path)
		return
	}
	if path := os.Getenv("IMPORT_TAGS"); path != "" {
		importTags(currentDB, path)
		return
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// importIngredients loads an ingredient catalog file (.csv or .json)
// into the database, skipping rows that already exist.
func importIngredients(db database.Database, path string) {
	importer := services.NewIngredientImporter(db.IngredientRepo())

	var count int64
	var err error
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		count, err = importer.ImportJSON(path)
	} else {
		count, err = importer.ImportCSV(path)
	}
	if err != nil {
		fmt.Printf("Error importing ingredients: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d ingredients from %s\n", count, path)
}

// importTags seeds the tag table from a JSON file, skipping rows that
// already exist.
func importTags(db database.Database, path string) {
	count, err := services.NewTagImporter(db.TagRepo()).ImportJSON(path)
	if err != nil {
		fmt.Printf("Error importing tags: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d tags from %s\n", count, path)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

// getEnv returns the value of the environment variable key or a fallback value.
func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
