// Command-line tool to remove bucket objects that no upload row references.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"TalentScope-backend/internal/controller/file"
	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
)

func main() {

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}

	storage, err := file.NewCloudStorageClient(os.Getenv("GOOGLE_BUCKET_NAME"))
	if err != nil {
		log.Fatalf("Storage client failed to initialize: %v", err)
	}

	objects, err := storage.ListObjects("")
	if err != nil {
		log.Fatalf("Failed to list bucket objects: %v", err)
	}

	var paths []string
	if err := db.Model(&model.ResumeUpload{}).Pluck("storage_path", &paths).Error; err != nil {
		log.Fatalf("Failed to load upload rows: %v", err)
	}

	referenced := make(map[string]bool, len(paths))
	for _, p := range paths {
		referenced[p] = true
	}

	var orphans []string
	for _, object := range objects {
		if !referenced[object] {
			orphans = append(orphans, object)
		}
	}

	if len(orphans) == 0 {
		fmt.Println("No orphan objects found, bucket is clean.")
		return
	}

	fmt.Printf("Found %d orphan object(s):\n", len(orphans))
	for _, object := range orphans {
		fmt.Printf("  %s\n", object)
	}

	// Warning message
	fmt.Println("⚠️ WARNING: These objects will be DELETED from the bucket.")
	fmt.Println("This action is irreversible. Do you want to continue? (yes/no): ")

	// Ask for confirmation
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	input = strings.TrimSpace(strings.ToLower(input))

	if input != "yes" {
		fmt.Println("Operation cancelled.")
		return
	}

	removed := 0
	for _, object := range orphans {
		if err := storage.Remove(object); err != nil {
			log.Printf("Failed to remove %s: %v", object, err)
			continue
		}
		removed++
	}

	fmt.Printf("✅ Removed %d of %d orphan object(s).\n", removed, len(orphans))
}
