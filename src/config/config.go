package config

import (
	"encoding/hex"
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// GetQRSecret reads the HMAC key for QR payload signatures from
// API_QRC_SECRET (hex encoded).
func GetQRSecret() ([]byte, error) {
	keyEnv := os.Getenv("API_QRC_SECRET")
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		return nil, fmt.Errorf("could not read key from API_QRC_SECRET: %w", err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("API_QRC_SECRET is not set")
	}
	return key, nil
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
