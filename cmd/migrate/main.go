package main

import (
	"context"
	"log"
	"time"

	"docchat-be/internal/config"
	"docchat-be/internal/repository/implementation"
	"docchat-be/pkg/database"
)

// Prepares the postgres schema for VECTOR_STORE=pgvector ahead of the first
// server start: chunk vectors and conversation checkpoints.
func main() {
	cfg := config.Load()
	if cfg.Storage.DBConnection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Storage.DBConnection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("Migrating document_chunks...")
	if err := implementation.NewDocumentChunkRepository(db).Migrate(ctx); err != nil {
		log.Fatal("Error: migration failed:", err)
	}
	log.Println("Migrating conversations...")
	if err := implementation.NewConversationRepository(db).Migrate(ctx); err != nil {
		log.Fatal("Error: migration failed:", err)
	}
	log.Println("Done.")
}
