// Package config loads the daemon configuration from the command line and
// an optional ini-style configuration file.
package config

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hathornetwork/htrsignd/infrastructure/logger"
	"github.com/hathornetwork/htrsignd/util"
	"github.com/hathornetwork/htrsignd/version"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultConfigFilename = "htrsignd.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultListenHost     = "127.0.0.1"

	// DefaultLogFile and DefaultErrLogFile are the names of the rotating
	// log files inside the log directory.
	DefaultLogFile    = "htrsignd.log"
	DefaultErrLogFile = "htrsignd_err.log"

	seedHexLength = 128 // 64 bytes
)

var (
	// DefaultAppDir is the default home directory for htrsignd.
	DefaultAppDir = util.AppDataDir("htrsignd", false)

	defaultConfigFile = filepath.Join(DefaultAppDir, defaultConfigFilename)
)

// Flags defines the configuration options for htrsignd.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	AppDir      string `short:"b" long:"appdir" description:"Directory to store keys and logs"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	Listen      string `long:"listen" description:"Interface:port to listen for host connections (default: 127.0.0.1 on the network's port)"`
	KeysFile    string `long:"keysfile" description:"Keys file location (default: <appdir>/<network>/keys.json)"`
	Seed        string `long:"seed" description:"Unlock with a raw 128-hex-character seed instead of the keys file; meant for tests and non-interactive hosts"`
	AutoApprove bool   `long:"auto-approve" description:"Approve every confirmation without prompting; meant for tests and non-interactive hosts"`
	Profile     string `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65535"`
	NetworkFlags
}

// Config wraps the parsed Flags with everything resolved while loading
// them.
type Config struct {
	*Flags
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultAppDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfgFlags *Flags, options flags.Options) *flags.Parser {
	return flags.NewParser(cfgFlags, options)
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//	1) Start with a default config with sane settings
//	2) Pre-parse the command line to check for an alternative config file
//	3) Load configuration file overwriting defaults with any specified options
//	4) Parse CLI options and overwrite/add any specified options
func LoadConfig() (*Config, error) {
	cfgFlags := Flags{
		ConfigFile: defaultConfigFile,
		AppDir:     DefaultAppDir,
		DebugLevel: defaultLogLevel,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfgFlags
	preParser := newConfigParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file. A missing file is an error only
	// when its location was given explicitly.
	parser := newConfigParser(&cfgFlags, flags.Default)
	cfg := &Config{Flags: &cfgFlags}
	configFileExplicit := preCfg.ConfigFile != defaultConfigFile
	_, statErr := os.Stat(preCfg.ConfigFile)
	if configFileExplicit || statErr == nil {
		err := flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); !ok || flagsErr.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}

	cfg.ResolveNetwork()

	cfg.AppDir = cleanAndExpandPath(cfg.AppDir)
	err = os.MkdirAll(cfg.AppDir, 0700)
	if err != nil {
		err := errors.Wrapf(err, "failed to create the application directory %s", cfg.AppDir)
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}

	// The log directory is namespaced per network, the same way the keys
	// file is.
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.AppDir, defaultLogDirname)
	}
	cfg.LogDir = filepath.Join(cleanAndExpandPath(cfg.LogDir), cfg.NetParams().Name)

	// Initialize log rotation. After log rotation has been initialized,
	// the logger variables may be used. Logs go to files only: standard
	// output belongs to the confirmation prompts.
	logger.InitLog(filepath.Join(cfg.LogDir, DefaultLogFile), filepath.Join(cfg.LogDir, DefaultErrLogFile))

	if err := logger.SetLogLevels(cfg.DebugLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	if cfg.Listen == "" {
		cfg.Listen = net.JoinHostPort(defaultListenHost, cfg.NetParams().DefaultPort)
	}

	if cfg.Seed != "" {
		if len(cfg.Seed) != seedHexLength {
			err := errors.Errorf("the seed option must hold %d hex characters, got %d",
				seedHexLength, len(cfg.Seed))
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
		if _, err := hex.DecodeString(cfg.Seed); err != nil {
			err := errors.Wrap(err, "the seed option is not valid hex")
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
	}

	// Validate profile port number
	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			err := errors.New("the profile port must be between 1024 and 65535")
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
	}

	return cfg, nil
}
