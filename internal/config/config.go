// Package config assembles run settings from a .env file, the process
// environment and command-line flags, in increasing priority.
package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultEnvFile = ".env"
	envPrefix      = "UNOCHECK_"
)

type Config struct {
	Dir         string
	Prefix      string
	Suffix      string
	Lang        string
	DebugColor  bool
	DebugRank   bool
	Show        bool
	Keys        bool
	Report      string
	LogLevel    string
	CacheBytes  int64
	ReshootDist int
	DumpFSM     bool
}

func Default() *Config {
	return &Config{
		Dir:         "Cartas_en_orden",
		Prefix:      "Card_",
		Suffix:      ".jpg",
		Lang:        "eng",
		LogLevel:    "info",
		CacheBytes:  1 << 20,
		ReshootDist: 4,
		Keys:        true,
	}
}

// Load starts from Default, applies envFile if it exists, then UNOCHECK_*
// variables from the environment.
func Load(envFile string) (*Config, error) {
	env := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			env, err = godotenv.Read(envFile)
			if err != nil {
				return nil, errors.Wrap(err, "godotenv.Read")
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "os.Stat")
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			return v, true
		}
		v, ok := env[envPrefix+key]
		return v, ok
	}
	c := Default()
	if err := c.apply(lookup); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) apply(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "%s%s", envPrefix, key)
		}
		*dst = b
		return nil
	}

	str("DIR", &c.Dir)
	str("PREFIX", &c.Prefix)
	str("SUFFIX", &c.Suffix)
	str("LANG", &c.Lang)
	str("REPORT", &c.Report)
	str("LOG_LEVEL", &c.LogLevel)
	for key, dst := range map[string]*bool{
		"DEBUG_COLOR": &c.DebugColor,
		"DEBUG_RANK":  &c.DebugRank,
		"SHOW":        &c.Show,
		"KEYS":        &c.Keys,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	if v, ok := lookup("CACHE_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, envPrefix+"CACHE_BYTES")
		}
		c.CacheBytes = n
	}
	if v, ok := lookup("RESHOOT_DIST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, envPrefix+"RESHOOT_DIST")
		}
		c.ReshootDist = n
	}
	return nil
}

// RegisterFlags binds fs to c, using the values already in c as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Dir, "dir", c.Dir, "directory holding the card photos")
	fs.StringVar(&c.Prefix, "prefix", c.Prefix, "card file name prefix")
	fs.StringVar(&c.Suffix, "suffix", c.Suffix, "card file name suffix")
	fs.StringVar(&c.Lang, "lang", c.Lang, "recognizer language")
	fs.BoolVar(&c.DebugColor, "debug-color", c.DebugColor, "show color classifier steps and wait for a key")
	fs.BoolVar(&c.DebugRank, "debug-rank", c.DebugRank, "show rank pipeline steps and wait for a key")
	fs.BoolVar(&c.Show, "show", c.Show, "render each card and the verdict as ansi art")
	fs.BoolVar(&c.Keys, "keys", c.Keys, "read hotkeys from the terminal while running, off while a debug flag is set")
	fs.StringVar(&c.Report, "report", c.Report, "write a yaml report to this path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "trace, debug, info, warn, error")
	fs.Int64Var(&c.CacheBytes, "cache-bytes", c.CacheBytes, "recognizer cache size, 0 disables, negative is unbounded")
	fs.IntVar(&c.ReshootDist, "reshoot-dist", c.ReshootDist, "max perceptual hash distance reported as a repeated photo, negative disables")
	fs.BoolVar(&c.DumpFSM, "dump-fsm", c.DumpFSM, "write graphviz src and exit")
}

// Level parses LogLevel.
func (c *Config) Level() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	return lvl, errors.Wrap(err, "log level")
}
