package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// loadEnvFile pulls variables from the first readable env file. godotenv
// never overwrites variables already set on the process.
func loadEnvFile() error {
	for _, name := range []string{".env", ".env.local"} {
		if godotenv.Load(name) == nil {
			return nil
		}
	}
	return fmt.Errorf("no env file present")
}
