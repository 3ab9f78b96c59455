// migratecreds is a one-time offline utility that imports a YAML file of
// plaintext credentials into the users table with bcrypt hashes. It replaces
// the old migrate-on-read path: hashing happens here, never during a request.
//
// Input format:
//
//	users:
//	  - username: alice
//	    password: pw1
//	    role: member        # optional, defaults to member
//	    request_admin: true # optional
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"hackathon-tracker/core"
)

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Role         string `yaml:"role"`
	RequestAdmin bool   `yaml:"request_admin"`
}

func main() {
	var (
		path  = flag.String("file", "users.yaml", "YAML file with plaintext credentials to import")
		cost  = flag.Int("cost", bcrypt.DefaultCost, "bcrypt work factor")
		actor = flag.String("actor", "migratecreds", "value recorded as created_by")
	)
	flag.Parse()

	cfg := core.Load()
	ctx := context.Background()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *path, err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("failed to parse %s: %v", *path, err)
	}
	if len(seed.Users) == 0 {
		log.Fatalf("%s contains no users", *path)
	}

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := core.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	repo := core.NewPgUserRepository(db)
	created, skipped := 0, 0
	for i, u := range seed.Users {
		u.Username = strings.TrimSpace(u.Username)
		if u.Username == "" || u.Password == "" {
			log.Printf("row %d: username and password are required, skipping", i+1)
			skipped++
			continue
		}
		if u.Role == "" {
			u.Role = core.RoleMember
		}
		if !core.ValidRole(u.Role) {
			log.Printf("row %d (%s): invalid role %q, skipping", i+1, u.Username, u.Role)
			skipped++
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), *cost)
		if err != nil {
			log.Fatalf("row %d (%s): hashing failed: %v", i+1, u.Username, err)
		}

		rec := core.UserRecord{
			Username:     u.Username,
			PasswordHash: string(hash),
			Role:         u.Role,
			RequestAdmin: u.RequestAdmin,
			CreatedBy:    *actor,
		}
		if err := repo.Create(ctx, rec); err != nil {
			if errors.Is(err, core.ErrConflict) {
				log.Printf("row %d (%s): already exists, skipping", i+1, u.Username)
				skipped++
				continue
			}
			log.Fatalf("row %d (%s): insert failed: %v", i+1, u.Username, err)
		}
		created++
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}
