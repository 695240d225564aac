// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"TalentScope-backend/internal/auth"
	"TalentScope-backend/internal/controller/file"
	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/viewstate"
)

// MyServer bundles the shared dependencies every route handler needs.
type MyServer struct {
	port int

	DB        *database.DBinstanceStruct
	Storage   file.StorageClient
	ViewStore viewstate.Store
	Blacklist auth.JwtBlacklistStore
}

// NewServer constructs the http.Server with every dependency wired. It exits
// when the database or the storage bucket cannot be reached, a half-alive
// server would only turn uploads into 500s.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))

	if auth.SECRET_KEY == "" {
		log.Fatal("SECRET_KEY is not set")
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	storage, err := file.NewCloudStorageClient(os.Getenv("GOOGLE_BUCKET_NAME"))
	if err != nil {
		log.Fatalf("Storage client failed to initialize: %s", err)
	}

	myServer := &MyServer{
		port:      port,
		DB:        db,
		Storage:   storage,
		ViewStore: newViewStore(),
		Blacklist: newBlacklistStore(),
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", myServer.port),
		Handler:      myServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

// newViewStore connects to Redis when REDIS_URL is set, otherwise view
// snapshots live in process memory and vanish on restart.
func newViewStore() viewstate.Store {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Println("REDIS_URL not set, view state will be kept in memory")
		return viewstate.NewMemoryStore(viewstate.SessionTTL)
	}

	client, err := viewstate.NewRedisClient(redisURL)
	if err != nil {
		log.Printf("Redis unavailable (%s), view state will be kept in memory", err)
		return viewstate.NewMemoryStore(viewstate.SessionTTL)
	}
	return viewstate.NewRedisStore(client, viewstate.SessionTTL)
}

// newBlacklistStore mirrors newViewStore: Redis when configured so logout is
// cluster-wide, in-memory otherwise.
func newBlacklistStore() auth.JwtBlacklistStore {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return auth.NewInMemoryBlacklistStore()
	}

	client, err := viewstate.NewRedisClient(redisURL)
	if err != nil {
		log.Printf("Redis unavailable (%s), token blacklist will be kept in memory", err)
		return auth.NewInMemoryBlacklistStore()
	}
	return auth.NewRedisBlacklistStore(client)
}
