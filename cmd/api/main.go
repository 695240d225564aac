// Command api runs the TalentScope HTTP server.
package main

import (
	"log"

	"TalentScope-backend/internal/server"
)

// @title TalentScope API
// @version 1.0
// @description Recruiting backend: candidate search, resume upload pipeline, position matching and statistics.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	srv := server.NewServer()

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server stopped: %s", err)
	}
}
