package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/siddarthanreddy/ministore/internal/store"
)

func main() {
	hashCmd := flag.NewFlagSet("hash-password", flag.ExitOnError)
	password := hashCmd.String("password", "", "Admin password to hash")

	fixCmd := flag.NewFlagSet("fix-images", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println("expected 'hash-password' or 'fix-images' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "hash-password":
		hashCmd.Parse(os.Args[2:])
		if *password == "" {
			fmt.Println("password is required")
			hashCmd.PrintDefaults()
			os.Exit(1)
		}
		hashPassword(*password)
	case "fix-images":
		fixCmd.Parse(os.Args[2:])
		fixImages()
	default:
		fmt.Println("expected 'hash-password' or 'fix-images' subcommand")
		os.Exit(1)
	}
}

// hashPassword prints a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func hashPassword(password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hashed)
}

// fixImages strips legacy path prefixes from stored image filenames.
// Early versions stored "/static/uploads/<name>"; products should hold
// the bare filename only.
func fixImages() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./ministore.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running cli before server
	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}

	products, err := db.ListProducts()
	if err != nil {
		log.Fatalf("Failed to list products: %v", err)
	}

	fixed := 0
	for _, p := range products {
		trimmed, found := strings.CutPrefix(p.ImageURL, "/static/uploads/")
		if !found {
			continue
		}
		fmt.Printf("Fixing %s: %s -> %s\n", p.Name, p.ImageURL, trimmed)
		if err := db.UpdateProductImage(p.ID, trimmed); err != nil {
			log.Fatalf("Failed to update product %d: %v", p.ID, err)
		}
		fixed++
	}

	fmt.Printf("Fixed %d image paths.\n", fixed)
}
