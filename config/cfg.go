package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
	"go.uber.org/zap"
)

//go:embed settings.yaml
var defaultSettings []byte

type (
	// SyntaxConfig drives syntax resolution: which dialects are treated as
	// markup/stylesheet, which follow strict XML rules, and how script-tag
	// language attributes map to embedded syntaxes. The script table is
	// host-defined, an empty mapping value marks the language as inert.
	SyntaxConfig struct {
		Markup          []string          `yaml:"markup" validate:"required,dive,required"`
		Stylesheet      []string          `yaml:"stylesheet" validate:"required,dive,required"`
		XMLSyntaxes     []string          `yaml:"xml_syntaxes"`
		ScriptLanguages map[string]string `yaml:"script_languages"`
	}

	// SnippetsConfig carries user snippet overrides layered on top of the
	// built-in tables.
	SnippetsConfig struct {
		Markup     map[string]string `yaml:"markup"`
		Stylesheet map[string]string `yaml:"stylesheet"`
	}

	// Config is the process-wide plugin configuration. Loaded once per
	// process and merged into every effective UserConfig.
	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Syntax    SyntaxConfig   `yaml:"syntax"`
		Snippets  SnippetsConfig `yaml:"snippets"`
		Options   Options        `yaml:"options"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, validate bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if validate {
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of built-in defaults and performs validation.
// An empty path yields the defaults.
func LoadConfiguration(path string) (*Config, error) {
	haveFile := len(path) > 0

	cfg, err := unmarshalConfig(defaultSettings, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare renders the built-in default configuration.
func Prepare() ([]byte, error) {
	cfg, err := unmarshalConfig(defaultSettings, &Config{}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	return Dump(cfg)
}

// Dump serializes configuration back to YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// IsXML reports whether the given dialect follows strict XML matching rules.
func (s *SyntaxConfig) IsXML(syntax string) bool {
	for _, name := range s.XMLSyntaxes {
		if name == syntax {
			return true
		}
	}
	return false
}

// IsStylesheet reports whether the given dialect is a stylesheet syntax.
func (s *SyntaxConfig) IsStylesheet(syntax string) bool {
	for _, name := range s.Stylesheet {
		if name == syntax {
			return true
		}
	}
	return false
}

// ScriptSyntax resolves a script-tag type/language attribute value to an
// embedded syntax name. Unknown or empty mappings mean the region is inert.
func (s *SyntaxConfig) ScriptSyntax(lang string) (string, bool) {
	syntax, ok := s.ScriptLanguages[lang]
	if !ok || syntax == "" {
		return "", false
	}
	return syntax, true
}

// FileProvider serves process-wide settings from a file, with an invalidation
// hook fired on every reload so dependents (the shared cache) can drop stale
// state before the next call observes it.
type FileProvider struct {
	mu       sync.RWMutex
	path     string
	cfg      *Config
	onReload []func()
	log      *zap.Logger
}

// NewFileProvider loads settings from path (empty path = built-in defaults).
func NewFileProvider(path string, log *zap.Logger) (*FileProvider, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := LoadConfiguration(path)
	if err != nil {
		return nil, err
	}
	return &FileProvider{path: path, cfg: cfg, log: log.Named("settings")}, nil
}

// NewStaticProvider wraps a fixed configuration, for tests and embedding hosts
// that manage settings themselves.
func NewStaticProvider(cfg *Config) *FileProvider {
	return &FileProvider{cfg: cfg, log: zap.NewNop()}
}

// Settings returns the current process-wide configuration.
func (p *FileProvider) Settings() *Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// OnReload registers a hook fired after every successful reload.
func (p *FileProvider) OnReload(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onReload = append(p.onReload, fn)
}

// Reload re-reads the settings file and fires invalidation hooks. On error the
// previous settings stay in effect.
func (p *FileProvider) Reload() error {
	cfg, err := LoadConfiguration(p.path)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.cfg = cfg
	hooks := make([]func(), len(p.onReload))
	copy(hooks, p.onReload)
	p.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	p.log.Debug("Settings reloaded", zap.String("path", p.path), zap.Int("hooks", len(hooks)))
	return nil
}

// Replace swaps settings in place (hosts that push settings instead of having
// us read a file) and fires invalidation hooks.
func (p *FileProvider) Replace(cfg *Config) {
	p.mu.Lock()
	p.cfg = cfg
	hooks := make([]func(), len(p.onReload))
	copy(hooks, p.onReload)
	p.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
