package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// One-off seeding script for the official roadmap catalog.
// Run with: go run seed_roadmaps.go
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set in environment")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	err = db.Ping()
	if err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	fmt.Println("Connected to database successfully!")

	query := `
		INSERT INTO roadmaps (slug, title, description, category, nodes, connections, is_official, is_published)
		VALUES
		    (
		        'frontend-developer',
		        'Frontend Developer',
		        'Step by step guide to becoming a modern frontend developer',
		        'web-development',
		        '[{"id": "html", "title": "HTML", "type": "core"}, {"id": "css", "title": "CSS", "type": "core"}, {"id": "javascript", "title": "JavaScript", "type": "core"}, {"id": "react", "title": "React", "type": "framework"}, {"id": "typescript", "title": "TypeScript", "type": "language"}]'::jsonb,
		        '[{"source": "html", "target": "css"}, {"source": "css", "target": "javascript"}, {"source": "javascript", "target": "react"}, {"source": "javascript", "target": "typescript"}]'::jsonb,
		        TRUE,
		        TRUE
		    ),
		    (
		        'backend-developer',
		        'Backend Developer',
		        'Step by step guide to becoming a backend developer',
		        'web-development',
		        '[{"id": "language", "title": "Pick a Language", "type": "core"}, {"id": "databases", "title": "Databases", "type": "core"}, {"id": "apis", "title": "APIs", "type": "core"}, {"id": "auth", "title": "Authentication", "type": "security"}, {"id": "deployment", "title": "Deployment", "type": "devops"}]'::jsonb,
		        '[{"source": "language", "target": "databases"}, {"source": "databases", "target": "apis"}, {"source": "apis", "target": "auth"}, {"source": "auth", "target": "deployment"}]'::jsonb,
		        TRUE,
		        TRUE
		    ),
		    (
		        'data-scientist',
		        'Data Scientist',
		        'Learn statistics, Python and machine learning',
		        'data-science',
		        '[{"id": "python", "title": "Python", "type": "core"}, {"id": "statistics", "title": "Statistics", "type": "core"}, {"id": "pandas", "title": "Pandas & NumPy", "type": "library"}, {"id": "ml", "title": "Machine Learning", "type": "core"}]'::jsonb,
		        '[{"source": "python", "target": "statistics"}, {"source": "statistics", "target": "pandas"}, {"source": "pandas", "target": "ml"}]'::jsonb,
		        TRUE,
		        TRUE
		    )
		ON CONFLICT (slug) DO UPDATE SET
		    title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    category = EXCLUDED.category,
		    nodes = EXCLUDED.nodes,
		    connections = EXCLUDED.connections,
		    updated_at = NOW()
	`

	_, err = db.Exec(query)
	if err != nil {
		log.Fatal("Failed to insert official roadmaps:", err)
	}

	fmt.Println("Official roadmaps seeded successfully!")

	fmt.Println("\nAll published roadmaps:")
	rows, err := db.Query("SELECT slug, title, category FROM roadmaps WHERE is_published = TRUE ORDER BY title")
	if err != nil {
		log.Fatal("Failed to query roadmaps:", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slug, title, category string
		err := rows.Scan(&slug, &title, &category)
		if err != nil {
			log.Fatal("Failed to scan roadmap:", err)
		}
		fmt.Printf("  - %s: %s (%s)\n", slug, title, category)
	}
}
