package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar is checked before any credentials file.
const EnvVar = "OPENAI_API_KEY"

// ErrMissingCredential is returned when no API key can be resolved. The check
// happens before any network attempt.
var ErrMissingCredential = errors.New("OPENAI_API_KEY not set and no credentials file found")

// Credentials mirrors the optional credentials.yaml file.
type Credentials struct {
	APIKey string `yaml:"api_key"`
}

// Manager resolves the API key from the environment or a YAML file under the
// config directory.
type Manager struct {
	path string
}

// NewManager returns a manager reading <configDir>/credentials.yaml.
// ASKGPT_CREDENTIALS_PATH overrides the location.
func NewManager(configDir string) *Manager {
	path := os.Getenv("ASKGPT_CREDENTIALS_PATH")
	if path == "" {
		path = filepath.Join(configDir, "credentials.yaml")
	}
	return &Manager{path: path}
}

// Path returns the credentials file location.
func (m *Manager) Path() string {
	return m.path
}

// Resolve returns the API key: environment variable first, then the YAML file.
func (m *Manager) Resolve() (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvVar)); key != "" {
		return key, nil
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrMissingCredential
		}
		return "", fmt.Errorf("read credentials: %w", err)
	}
	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("parse credentials: %w", err)
	}
	if strings.TrimSpace(creds.APIKey) == "" {
		return "", ErrMissingCredential
	}
	return strings.TrimSpace(creds.APIKey), nil
}

// MaybeOnboard prompts for an API key when none is resolvable and stores the
// answer via Save. Declining leaves resolution to fail at dispatch time, so a
// keyless user keeps access to the read-only commands.
func (m *Manager) MaybeOnboard(in io.Reader, out io.Writer) error {
	if _, err := m.Resolve(); err == nil {
		return nil
	} else if !errors.Is(err, ErrMissingCredential) {
		return err
	}

	fmt.Fprintf(out, "No %s set and no credentials file at %s.\n", EnvVar, m.path)
	fmt.Fprint(out, "Enter your OpenAI API key to store it there (leave blank to skip): ")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return nil
	}
	key := strings.TrimSpace(answer)
	if key == "" {
		fmt.Fprintf(out, "Skipping. Set %s or rerun to store a key.\n", EnvVar)
		return nil
	}
	if err := m.Save(key); err != nil {
		return err
	}
	fmt.Fprintf(out, "Stored credentials at %s.\n", m.path)
	return nil
}

// Save writes the API key to the credentials file with user-only permissions.
func (m *Manager) Save(key string) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	data, err := yaml.Marshal(Credentials{APIKey: key})
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
