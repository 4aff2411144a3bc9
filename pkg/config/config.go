// Package config loads drawgraph's TOML configuration.
//
// Every field has a default, so a missing file is not an error when the
// default location is used:
//
//	[editor]
//	tolerance        = 5      # hit-test tolerance in px
//	history_limit    = 100    # undo and redo depth
//	path_samples     = 20     # curve samples for hit testing
//	text_line_height = 1.2
//
//	[graph]
//	parallel_spacing = 30     # offset between parallel edges
//	self_loop_spread = 30     # degrees either side of the loop angle
//	self_loop_bow    = 1.5    # loop reach as a multiple of the node radius
//
//	[store]
//	backend = "file"          # file, memory, redis, mongo or none
//	dir     = ""              # file backend; default is the user cache dir
//	redis_addr = "localhost:6379"
//	redis_ttl  = "168h"
//	mongo_uri        = "mongodb://localhost:27017"
//	mongo_database   = "drawgraph"
//	mongo_collection = "documents"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "info"
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/drawgraph/pkg/errors"
)

// FileName is the configuration file name looked up in the user config dir.
const FileName = "drawgraph.toml"

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config is the full configuration.
type Config struct {
	Editor Editor `toml:"editor"`
	Graph  Graph  `toml:"graph"`
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

// Editor holds editing policy.
type Editor struct {
	Tolerance      float64 `toml:"tolerance"`
	HistoryLimit   int     `toml:"history_limit"`
	PathSamples    int     `toml:"path_samples"`
	TextLineHeight float64 `toml:"text_line_height"`
}

// Graph holds diagram routing policy.
type Graph struct {
	ParallelSpacing float64 `toml:"parallel_spacing"`
	SelfLoopSpread  float64 `toml:"self_loop_spread"`
	SelfLoopBow     float64 `toml:"self_loop_bow"`
}

// Store selects and configures the document store.
type Store struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db"`
	RedisTTL        Duration `toml:"redis_ttl"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("90m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: Editor{
			Tolerance:      5,
			HistoryLimit:   100,
			PathSamples:    20,
			TextLineHeight: 1.2,
		},
		Graph: Graph{
			ParallelSpacing: 30,
			SelfLoopSpread:  30,
			SelfLoopBow:     1.5,
		},
		Store: Store{
			Backend:         BackendFile,
			RedisAddr:       "localhost:6379",
			RedisTTL:        Duration{7 * 24 * time.Hour},
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "drawgraph",
			MongoCollection: "documents",
		},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info"},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "drawgraph", FileName), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads TOML from r over the defaults and validates the result.
// Unknown keys are rejected so typos do not go unnoticed.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	meta, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}
	check(c.Editor.Tolerance >= 0, "editor.tolerance must be >= 0")
	check(c.Editor.HistoryLimit > 0, "editor.history_limit must be > 0")
	check(c.Editor.PathSamples > 0, "editor.path_samples must be > 0")
	check(c.Editor.TextLineHeight > 0, "editor.text_line_height must be > 0")
	check(c.Graph.ParallelSpacing > 0, "graph.parallel_spacing must be > 0")
	check(c.Graph.SelfLoopSpread > 0 && c.Graph.SelfLoopSpread < 90, "graph.self_loop_spread must be in (0, 90)")
	check(c.Graph.SelfLoopBow > 0, "graph.self_loop_bow must be > 0")
	check(slices.Contains([]string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}, c.Store.Backend),
		"store.backend must be one of file, memory, redis, mongo, none")
	check(c.Store.RedisTTL.Duration >= 0, "store.redis_ttl must be >= 0")
	check(slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level),
		"log.level must be one of debug, info, warn, error")

	if len(problems) > 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "%s", strings.Join(problems, "; "))
	}
	return nil
}
