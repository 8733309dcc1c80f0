package config

import (
	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env files into the process environment.
// Variables that are already set take precedence over the files.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}
