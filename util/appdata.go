package util

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// AppDataDir returns the conventional per-user data directory for an
// application: ~/.appname on POSIX systems, $HOME/Library/Application
// Support/Appname on macOS and %LOCALAPPDATA%\Appname on Windows. The
// roaming parameter selects the roaming profile (%APPDATA%) on Windows
// instead of the local one. When no home directory can be determined the
// current directory is returned.
func AppDataDir(appName string, roaming bool) string {
	return appDataDir(runtime.GOOS, appName, roaming)
}

// appDataDir is split from AppDataDir so the operating system can be faked
// in tests.
func appDataDir(goos, appName string, roaming bool) string {
	appName = strings.TrimPrefix(appName, ".")
	if appName == "" {
		return "."
	}

	switch goos {
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if roaming || appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData != "" {
			return filepath.Join(appData, capitalized(appName))
		}

	case "darwin":
		if homeDir := userHomeDir(); homeDir != "" {
			return filepath.Join(homeDir, "Library", "Application Support",
				capitalized(appName))
		}

	default:
		if homeDir := userHomeDir(); homeDir != "" {
			return filepath.Join(homeDir, "."+strings.ToLower(appName))
		}
	}

	return "."
}

func userHomeDir() string {
	usr, err := user.Current()
	if err == nil && usr.HomeDir != "" {
		return usr.HomeDir
	}
	// os/user can fail in cross-compiled or stripped environments where
	// cgo name lookups are unavailable, so fall back to the environment.
	return os.Getenv("HOME")
}

func capitalized(s string) string {
	return string(unicode.ToUpper(rune(s[0]))) + s[1:]
}
