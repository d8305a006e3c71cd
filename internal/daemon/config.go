package daemon

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"github.com/creasty/defaults"
	"github.com/goccy/go-yaml"
	icingadbConfig "github.com/icinga/icingadb/pkg/config"
	"github.com/jessevdk/go-flags"
	"github.com/rentals/rooms/internal"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// EnvPrefix is the prefix of all environment variables overriding configuration options.
const EnvPrefix = "ROOMS"

type ConfigFile struct {
	Listen        string                  `yaml:"listen" default:"localhost:5690"`
	DebugPassword string                  `yaml:"debug-password"`
	RoomsFile     string                  `yaml:"rooms-file"`
	API           API                     `yaml:"api"`
	Database      icingadbConfig.Database `yaml:"database"`
	Logging       icingadbConfig.Logging  `yaml:"logging"`
}

// API holds the options of the room listing API.
type API struct {
	DefaultPageSize int `yaml:"default-page-size" default:"20"`
	MaxPageSize     int `yaml:"max-page-size" default:"100"`
}

// Validate checks the page size limits.
func (a *API) Validate() error {
	if a.DefaultPageSize < 1 {
		return fmt.Errorf("api default-page-size must be at least 1, got %d", a.DefaultPageSize)
	}
	if a.MaxPageSize < a.DefaultPageSize {
		return fmt.Errorf("api max-page-size (%d) must not be smaller than default-page-size (%d)",
			a.MaxPageSize, a.DefaultPageSize)
	}

	return nil
}

// Validate validates the entire daemon configuration on daemon startup.
// The database config is only validated if the rooms aren't served from a rooms file.
func (c *ConfigFile) Validate() error {
	if c.RoomsFile == "" {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return err
	}

	return nil
}

// Flags defines the CLI flags supported by the rooms daemon.
type Flags struct {
	// Version decides whether to just print the version and exit.
	Version bool `long:"version" description:"print version and exit"`
	// Config is the path to the config file
	Config string `short:"c" long:"config" description:"path to config file"`
}

// ParseFlagsAndConfig parses the CLI flags provided to the executable and tries to load the config from the YAML file.
//
// Prints any error during parsing or config loading to os.Stderr and exits, otherwise returns the loaded ConfigFile.
func ParseFlagsAndConfig() *ConfigFile {
	f := Flags{Config: internal.SysConfDir + "/rooms/config.yml"}
	if _, err := flags.NewParser(&f, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(ExitSuccess)
		}

		os.Exit(ExitFailure)
	}

	if f.Version {
		internal.Version.Print("Rooms")
		os.Exit(ExitSuccess)
	}

	conf, err := LoadConfig(f.Config)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(ExitFailure)
	}

	return conf
}

// LoadConfig loads the YAML config file from the given path, applies the environment overrides and validates it.
func LoadConfig(path string) (*ConfigFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	c, err := loadConfig(f, os.Environ())
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// loadConfig decodes the config from the given reader on top of its defaults and applies the environment overrides.
func loadConfig(r io.Reader, environ []string) (*ConfigFile, error) {
	c := new(ConfigFile)
	if err := defaults.Set(c); err != nil {
		return nil, err
	}

	err := yaml.NewDecoder(r).Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := PopulateFromYamlEnvironment(EnvPrefix, c, environ); err != nil {
		return nil, err
	}

	return c, nil
}

// PopulateFromYamlEnvironment overrides the YAML options of target from environment variables.
//
// Each option is addressed by its YAML key path, upper-cased and joined with "_" after the given prefix, e.g.
// ROOMS_DATABASE_HOST for the key "host" in the "database" block. Values are interpreted as YAML, so strings that
// would be parsed differently must be quoted, like '[2001:db8::1]:5680'. Environment variables with the prefix
// that don't address any option, or exported struct fields without a YAML tag, result in an error.
func PopulateFromYamlEnvironment(prefix string, target any, environ []string) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to a struct, got %T", target)
	}

	keys := make(map[string][]string)
	if err := collectYamlKeys(v.Elem().Type(), nil, keys); err != nil {
		return err
	}

	root := make(map[string]any)
	for _, env := range environ {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, prefix+"_") {
			continue
		}

		path, ok := keys[strings.TrimPrefix(name, prefix+"_")]
		if !ok {
			return fmt.Errorf("environment variable %q does not match any configuration option", name)
		}

		node := root
		for _, key := range path[:len(path)-1] {
			child, ok := node[key].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[key] = child
			}
			node = child
		}
		node[path[len(path)-1]] = value
	}

	if len(root) == 0 {
		return nil
	}

	var doc bytes.Buffer
	writeYamlNode(&doc, root, 0)

	if err := yaml.NewDecoder(&doc).Decode(target); err != nil {
		return fmt.Errorf("cannot apply configuration from environment: %w", err)
	}

	return nil
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// collectYamlKeys maps the environment variable suffix of every YAML option within t to its key path.
func collectYamlKeys(t reflect.Type, path []string, keys map[string][]string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag, ok := field.Tag.Lookup("yaml")
		if !ok {
			return fmt.Errorf("field %s.%s has no yaml tag", t, field.Name)
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}

		ft := field.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		nested := ft.Kind() == reflect.Struct && !reflect.PointerTo(ft).Implements(textUnmarshalerType)
		if nested && strings.Contains(opts, "inline") {
			if err := collectYamlKeys(ft, path, keys); err != nil {
				return err
			}
			continue
		}

		if name == "" {
			name = strings.ToLower(field.Name)
		}

		fieldPath := append(append([]string{}, path...), name)
		if nested {
			if err := collectYamlKeys(ft, fieldPath, keys); err != nil {
				return err
			}
			continue
		}

		keys[strings.ToUpper(strings.Join(fieldPath, "_"))] = fieldPath
	}

	return nil
}

// writeYamlNode writes the given nested map as YAML block mapping, leaving all scalar values untouched.
func writeYamlNode(w *bytes.Buffer, node map[string]any, indent int) {
	names := make([]string, 0, len(node))
	for name := range node {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w.WriteString(strings.Repeat("  ", indent))
		w.WriteString(name)
		w.WriteString(":")

		switch value := node[name].(type) {
		case map[string]any:
			w.WriteString("\n")
			writeYamlNode(w, value, indent+1)
		default:
			_, _ = fmt.Fprintf(w, " %s\n", value)
		}
	}
}
