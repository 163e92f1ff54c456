package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig is the validated runtime configuration of the HTTP server.
// It is built once at startup and never mutated afterwards.
type ServerConfig struct {
	Backlog          int    `config:"backlog" validate:"min=1"`
	Debug            bool   `config:"debug"`
	Host             string `config:"host" validate:"required"`
	LogLevel         string `config:"log_level" validate:"oneof=trace debug info warning warn error critical"`
	Port             int    `config:"port" validate:"min=1,max=65535"`
	Reload           bool   `config:"reload"`
	TimeoutKeepAlive int    `config:"timeout_keep_alive" validate:"min=0"`
	Workers          int    `config:"workers" validate:"min=1"`
}

// Addr returns the host:port pair the server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type FieldType string

const (
	TypeBool   FieldType = "bool"
	TypeInt    FieldType = "int"
	TypeString FieldType = "string"
)

type serverField struct {
	name string
	typ  FieldType
	set  func(c *ServerConfig, v any)
}

// serverFields lists the required keys in the order they are checked.
var serverFields = []serverField{
	{"backlog", TypeInt, func(c *ServerConfig, v any) { c.Backlog = v.(int) }},
	{"debug", TypeBool, func(c *ServerConfig, v any) { c.Debug = v.(bool) }},
	{"host", TypeString, func(c *ServerConfig, v any) { c.Host = v.(string) }},
	{"log_level", TypeString, func(c *ServerConfig, v any) { c.LogLevel = v.(string) }},
	{"port", TypeInt, func(c *ServerConfig, v any) { c.Port = v.(int) }},
	{"reload", TypeBool, func(c *ServerConfig, v any) { c.Reload = v.(bool) }},
	{"timeout_keep_alive", TypeInt, func(c *ServerConfig, v any) { c.TimeoutKeepAlive = v.(int) }},
	{"workers", TypeInt, func(c *ServerConfig, v any) { c.Workers = v.(int) }},
}

// ServerKeys returns the required server configuration keys in declared order.
func ServerKeys() []string {
	keys := make([]string, 0, len(serverFields))
	for _, f := range serverFields {
		keys = append(keys, f.name)
	}
	return keys
}

// ServerDefaults are used for keys missing from the process environment when no
// env file could be read.
var ServerDefaults = map[string]string{
	"backlog":            "2048",
	"debug":              "false",
	"host":               "0.0.0.0",
	"log_level":          "trace",
	"port":               "8080",
	"reload":             "true",
	"timeout_keep_alive": "5",
	"workers":            "4",
}

// ValidateServer checks that every required key is present in raw and coerces
// each value to its declared type. Extra keys are ignored. The first failure
// aborts validation.
func ValidateServer(raw map[string]string) (ServerConfig, error) {
	for _, f := range serverFields {
		if _, ok := raw[f.name]; !ok {
			return ServerConfig{}, &MissingFieldError{Field: f.name}
		}
	}

	var cfg ServerConfig
	for _, f := range serverFields {
		v, err := coerce(raw[f.name], f.typ)
		if err != nil {
			return ServerConfig{}, &InvalidFieldTypeError{Field: f.name, Type: f.typ, Value: raw[f.name], Err: err}
		}
		f.set(&cfg, v)
	}

	if err := validateValues(cfg); err != nil {
		return ServerConfig{}, err
	}

	return cfg, nil
}

func coerce(raw string, typ FieldType) (any, error) {
	switch typ {
	case TypeBool:
		return strconv.ParseBool(strings.TrimSpace(raw))
	case TypeInt:
		return strconv.Atoi(strings.TrimSpace(raw))
	default:
		return raw, nil
	}
}

// LoadRaw returns the raw server configuration mapping. The first env file that
// can be read and is not empty wins. When none is usable, each required key is
// looked up in the process environment (as is, then upper-cased) and falls back
// to ServerDefaults. The second return value names the source that was used.
func LoadRaw(files ...string) (map[string]string, string) {
	for _, name := range files {
		values, err := godotenv.Read(name)
		if err == nil && len(values) > 0 {
			return values, name
		}
	}

	raw := make(map[string]string, len(ServerDefaults))
	for _, key := range ServerKeys() {
		if v, ok := os.LookupEnv(key); ok {
			raw[key] = v
			continue
		}
		if v, ok := os.LookupEnv(strings.ToUpper(key)); ok {
			raw[key] = v
			continue
		}
		raw[key] = ServerDefaults[key]
	}
	return raw, "environment"
}

// LoadServerConfig loads the raw mapping from files (or the environment) and
// validates it. The source that was used is returned even when validation fails.
func LoadServerConfig(files ...string) (ServerConfig, string, error) {
	raw, source := LoadRaw(files...)
	cfg, err := ValidateServer(raw)
	return cfg, source, err
}
