package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/taskr/internal/logging"
	"github.com/dkoosis/taskr/internal/task"
)

// FileName is the task file name looked up locally and in the user config dir.
const FileName = ".taskr.yaml"

// ErrInvalidConfig wraps every task file problem: unreadable, malformed, or
// describing an invalid registry.
var ErrInvalidConfig = errors.New("invalid task file")

// Argv is a command line. In YAML it may be written as a sequence
// (["cargo", "fmt"]) or as a single string split on whitespace ("cargo fmt").
type Argv []string

// UnmarshalYAML accepts both the sequence and the scalar form.
func (a *Argv) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var parts []string
		if err := node.Decode(&parts); err != nil {
			return err
		}
		*a = parts
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// TaskSpec is one entry of the tasks list.
type TaskSpec struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description,omitempty"`
	Group        string `yaml:"group,omitempty"`
	Announce     string `yaml:"announce,omitempty"`
	Command      Argv   `yaml:"command"`
	WindowsShell Argv   `yaml:"windows_shell,omitempty"`
}

// AppConfig represents the contents of a .taskr.yaml file.
type AppConfig struct {
	WindowsShell Argv       `yaml:"windows_shell,omitempty"`
	NoColor      bool       `yaml:"no_color"`
	Debug        bool       `yaml:"debug"`
	Tasks        []TaskSpec `yaml:"tasks"`

	// Path is the file the config was read from; empty when defaults are used.
	Path string `yaml:"-"`
}

// LoadConfig locates and parses the task file. explicitPath, when set, must
// exist. A missing implicit file is not an error: an empty AppConfig is
// returned and the built-in registry applies.
// Tracing goes to stderr when TASKR_DEBUG is set.
func LoadConfig(explicitPath string) (*AppConfig, error) {
	log := logging.New(os.Stderr, os.Getenv(logging.EnvDebug) != "")
	return loadConfig(explicitPath, log.WithField("fn", "LoadConfig"))
}

func loadConfig(explicitPath string, log *logrus.Entry) (*AppConfig, error) {
	configPath := explicitPath
	if configPath == "" {
		configPath = getConfigPath(log)
	}
	if configPath == "" {
		log.Debug("no task file found, using built-in tasks")
		return &AppConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, configPath, err)
	}
	cfg.Path = configPath

	log.WithField("path", configPath).Debugf("loaded %d task(s)", len(cfg.Tasks))
	return cfg, nil
}

// parse decodes a task file, rejecting unknown keys so typos surface early.
func parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// Registry builds the immutable task registry described by the file, or the
// built-in registry when the file declares no tasks.
func (c *AppConfig) Registry() (*task.Registry, error) {
	if c == nil || len(c.Tasks) == 0 {
		return task.Builtin(), nil
	}
	tasks := make([]task.Task, 0, len(c.Tasks))
	for _, spec := range c.Tasks {
		tasks = append(tasks, task.Task{
			Name:         spec.Name,
			Description:  spec.Description,
			Group:        spec.Group,
			Announcement: spec.Announce,
			Command:      spec.Command,
			WindowsShell: spec.WindowsShell,
		})
	}
	reg, err := task.NewRegistry(tasks...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, c.Path, err)
	}
	return reg, nil
}

// getConfigPath tries to find the .taskr.yaml file.
// It checks the local directory first, then the user config dir (if valid).
func getConfigPath(log *logrus.Entry) string {
	if _, err := os.Stat(FileName); err == nil {
		absLocalPath, _ := filepath.Abs(FileName)
		log.WithField("path", absLocalPath).Debug("using local task file")
		return FileName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		log.WithError(err).WithField("dir", configHome).Debug("user config dir unusable")
		return ""
	}
	xdgPath := filepath.Join(configHome, "taskr", FileName)
	if _, errStat := os.Stat(xdgPath); errStat != nil {
		log.WithField("path", xdgPath).Debug("user task file not found")
		return ""
	}
	log.WithField("path", xdgPath).Debug("using user task file")
	return xdgPath
}
