// genhash prints password hashes in the format stored in users.password_hash,
// for seeding accounts directly in the database.
//
//	go run ./scripts/genhash.go <password>...
package main

import (
	"fmt"
	"jobconnect-backend/pkg/auth"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <password>...")
		os.Exit(2)
	}

	for _, pass := range os.Args[1:] {
		hash, err := auth.HashPassword(pass)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Println(hash)
	}
}
