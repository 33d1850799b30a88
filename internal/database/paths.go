package database

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	AppDirName        = ".trip-planner"
	CacheDirName      = "cache"
	LogDirName        = "logs"
	DistanceCacheFile = "distances.json"
	SQLiteDBFileName  = "planner.db"
	ConfigFileName    = "config.yaml"
)

// GetAppDir returns ~/.trip-planner, creating it if needed
func GetAppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, AppDirName)
	if err := os.MkdirAll(appDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create app directory: %w", err)
	}

	return appDir, nil
}

// GetCacheDir returns ~/.trip-planner/cache, creating it if needed
func GetCacheDir() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}

	cacheDir := filepath.Join(appDir, CacheDirName)
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	return cacheDir, nil
}

// GetDistanceCachePath returns ~/.trip-planner/cache/distances.json
func GetDistanceCachePath() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, DistanceCacheFile), nil
}

// GetDefaultDBPath returns the default SQLite cache path: ~/.trip-planner/planner.db
func GetDefaultDBPath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, SQLiteDBFileName), nil
}

// GetConfigFilePath returns ~/.trip-planner/config.yaml
func GetConfigFilePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, ConfigFileName), nil
}

// GetLogDir returns ~/.trip-planner/logs
func GetLogDir() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, LogDirName), nil
}
