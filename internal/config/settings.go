package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BirthdaySettings holds defaults for the birthday tool.
type BirthdaySettings struct {
	File    string `yaml:"file"`
	Port    string `yaml:"port"`
	Refresh string `yaml:"refresh"`
}

// ContactSettings holds defaults for the contact shell.
type ContactSettings struct {
	File string `yaml:"file"`
}

// Settings is the optional on-disk configuration shared by both tools.
// Command-line flags always win over values found here.
type Settings struct {
	Language  string           `yaml:"language"`
	Birthdays BirthdaySettings `yaml:"birthdays"`
	Contacts  ContactSettings  `yaml:"contacts"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Language: DefaultLanguage,
		Birthdays: BirthdaySettings{
			File:    DefaultUsersFile,
			Port:    DefaultPort,
			Refresh: DefaultRefresh,
		},
		Contacts: ContactSettings{
			File: DefaultContactsFile,
		},
	}
}

// Normalize fills in missing values so that partially-filled files behave.
func (s *Settings) Normalize() {
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.Birthdays.File == "" {
		s.Birthdays.File = DefaultUsersFile
	}
	if s.Birthdays.Port == "" {
		s.Birthdays.Port = DefaultPort
	}
	if s.Birthdays.Refresh == "" {
		s.Birthdays.Refresh = DefaultRefresh
	}
	if s.Contacts.File == "" {
		s.Contacts.File = DefaultContactsFile
	}
}

// DefaultSettingsPath returns <user config dir>/go-assistant/config.yaml.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// LoadSettings reads the YAML settings at path.
// A missing file is not an error: the defaults are returned.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	s.Normalize()
	return s, nil
}
