// Package config provides a go-simpler.org/env configuration table for the
// relay. Settings are read from the environment, or from a .env file in the
// xdg config directory which overrides it.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"go-simpler.org/env"

	"prismview.dev/pkg/utils/apputil"
	"prismview.dev/pkg/utils/chk"
	"prismview.dev/pkg/utils/log"
	"prismview.dev/pkg/utils/lol"
	"prismview.dev/pkg/version"
)

// C is the configuration for the prismview relay. The reference deployment
// listens on loopback port 9000; both are adjustable here.
type C struct {
	AppName  string `env:"PRISMVIEW_APP_NAME" default:"prismview"`
	Config   string `env:"PRISMVIEW_CONFIG_DIR" usage:"location of the .env configuration file"`
	Listen   string `env:"PRISMVIEW_LISTEN" default:"127.0.0.1" usage:"network listen address"`
	Port     int    `env:"PRISMVIEW_PORT" default:"9000" usage:"port to listen on"`
	LogLevel string `env:"PRISMVIEW_LOG_LEVEL" default:"info" usage:"log level: off fatal error warn info debug trace"`
	Pprof    bool   `env:"PRISMVIEW_PPROF" default:"false" usage:"enable pprof on 127.0.0.1:6060"`
}

// New creates a new config.C from the environment and an optional .env file.
func New() (cfg *C, err error) {
	cfg = &C{}
	if err = env.Load(cfg, nil); chk.T(err) {
		return
	}
	if cfg.Config == "" {
		cfg.Config = filepath.Join(xdg.ConfigHome, cfg.AppName)
	}
	envPath := filepath.Join(cfg.Config, ".env")
	if apputil.FileExists(envPath) {
		var src envFile
		if src, err = readEnvFile(envPath); chk.T(err) {
			return
		}
		if err = env.Load(cfg, &env.Options{Source: src}); chk.E(err) {
			return
		}
		lol.SetLogLevel(cfg.LogLevel)
		log.I.F("loaded configuration from %s", envPath)
	}
	return
}

// envFile is a KEY=value map loaded from a .env file, usable as an env
// source. The process environment takes precedence over the file.
type envFile map[string]string

func (e envFile) LookupEnv(key string) (v string, ok bool) {
	if v, ok = os.LookupEnv(key); ok {
		return
	}
	v, ok = e[key]
	return
}

func readEnvFile(path string) (e envFile, err error) {
	var f *os.File
	if f, err = os.Open(path); chk.E(err) {
		return
	}
	defer func() { chk.D(f.Close()) }()
	e = make(envFile)
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		e[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	err = scan.Err()
	return
}

// HelpRequested returns true if any of the common types of help invocation
// are found as the first command line parameter.
func HelpRequested() (help bool) {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case "help", "-h", "--h", "-help", "--help", "?":
			help = true
		}
	}
	return
}

// GetEnv reports whether the first command line parameter asks for the
// current settings printed as environment variable key/values.
func GetEnv() (requested bool) {
	if len(os.Args) > 1 {
		if strings.ToLower(os.Args[1]) == "env" {
			requested = true
		}
	}
	return
}

// KV is a key/value pair.
type KV struct{ Key, Value string }

// EnvKV turns a struct with `env` tags into a list of environment variable
// key/value pairs. Note you must dereference a pointer type to use this.
func EnvKV(cfg any) (m []KV) {
	t := reflect.TypeOf(cfg)
	for i := 0; i < t.NumField(); i++ {
		k := t.Field(i).Tag.Get("env")
		if k == "" {
			continue
		}
		v := reflect.ValueOf(cfg).Field(i).Interface()
		m = append(m, KV{k, fmt.Sprint(v)})
	}
	return
}

// PrintEnv renders the key/values of a config.C to a provided io.Writer.
func PrintEnv(cfg *C, printer io.Writer) {
	kvs := EnvKV(*cfg)
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	for _, v := range kvs {
		_, _ = fmt.Fprintf(printer, "%s=%s\n", v.Key, v.Value)
	}
}

// PrintHelp outputs a help text listing the configuration options and
// current values to a provided io.Writer.
func PrintHelp(cfg *C, printer io.Writer) {
	_, _ = fmt.Fprintf(printer, "%s %s\n\n", cfg.AppName, version.V)
	_, _ = fmt.Fprintf(
		printer,
		"Environment variables that configure %s:\n\n", cfg.AppName,
	)
	env.Usage(cfg, printer, nil)
	_, _ = fmt.Fprintf(
		printer,
		"\nCLI parameter 'help' also prints this information\n\n"+
			"a .env file found at %s/.env is loaded for configuration;\n"+
			"the environment overrides it\n\n"+
			"use the parameter 'env' to print the current configuration:\n\n"+
			"\t%s env > %s/.env\n\n", cfg.Config, os.Args[0], cfg.Config,
	)
	_, _ = fmt.Fprintf(printer, "current configuration:\n\n")
	PrintEnv(cfg, printer)
	_, _ = fmt.Fprintln(printer)
}
