package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-address-matcher/api"
	"github.com/gcbaptista/go-address-matcher/config"
	"github.com/gcbaptista/go-address-matcher/internal/embedding"
	"github.com/gcbaptista/go-address-matcher/internal/engine"
	"github.com/gcbaptista/go-address-matcher/internal/geocode"
	"github.com/gcbaptista/go-address-matcher/services"
)

func main() {
	// Define command-line flags
	var (
		help         = flag.Bool("help", false, "Show help message")
		version      = flag.Bool("version", false, "Show version information")
		port         = flag.String("port", "8080", "Port to run the server on")
		dataDir      = flag.String("data-dir", "./matcher_data", "Directory to store registry snapshots and run output")
		geocodioKey  = flag.String("geocodio-key", os.Getenv("GEOCODIO_API_KEY"), "Geocodio API key for external lookups (empty disables the external stage)")
		embeddingURL = flag.String("embedding-url", os.Getenv("EMBEDDING_API_URL"), "Embedding service endpoint (empty disables the embedding stage)")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Go Address Matcher - cascade matching of transaction addresses against a canonical registry\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                            # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000                # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --data-dir /tmp/matcher    # Use custom data directory\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Go Address Matcher v1.0.0\n")
		fmt.Printf("Exact, fuzzy, phonetic, embedding, and external-lookup matching with async batch runs\n")
		return
	}

	settings := config.MatcherSettings{}

	var geocoder services.GeocodeClient
	if *geocodioKey != "" {
		geocoder = geocode.NewClient(*geocodioKey, config.DefaultExternalTimeout)
	} else {
		log.Printf("No Geocodio API key configured; external lookup stage disabled")
	}

	var embedder services.Embedder
	if *embeddingURL != "" {
		embedder = embedding.NewClient(*embeddingURL, config.DefaultExternalTimeout)
	} else {
		log.Printf("No embedding endpoint configured; embedding stage disabled")
	}

	// Initialize the matcher engine
	log.Printf("Using data directory: %s", *dataDir)
	matcherEngine, err := engine.NewEngine(*dataDir, settings, geocoder, embedder)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer matcherEngine.Stop()

	// Initialize Gin router
	router := gin.Default()

	// Setup API routes
	api.SetupRoutes(router, matcherEngine)

	// Start the server
	log.Printf("Starting server on port %s...", *port)
	if err := router.Run(":" + *port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
