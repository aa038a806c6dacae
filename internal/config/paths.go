package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/taskschema/internal/constants"
	"github.com/mrz1836/taskschema/internal/errors"
)

// HomeDir returns the taskschema home directory.
// TASKSCHEMA_HOME wins when set; otherwise ~/.taskschema.
func HomeDir() (string, error) {
	if home := os.Getenv(constants.HomeEnvVar); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(userHome, constants.AppHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .taskschema/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(constants.AppHome, constants.GlobalConfigName)
}
