// Package hooks runs user commands around snapshot exports. Hooks are
// listed under "hooks" in the config file and run before the snapshot is
// written (pre-export) or after it (post-export).
package hooks

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Phase is when a hook runs.
type Phase string

const (
	// PreExport runs before the snapshot is written. Failure cancels the
	// export unless the hook says on_error: continue.
	PreExport Phase = "pre-export"
	// PostExport runs after the snapshot is written. Failure is reported
	// but the export stands.
	PostExport Phase = "post-export"
)

// On-error policies.
const (
	OnErrorFail     = "fail"
	OnErrorContinue = "continue"
)

// DefaultTimeout is the default hook execution timeout.
const DefaultTimeout = 30 * time.Second

// Hook is one shell command.
type Hook struct {
	Name    string            `yaml:"name,omitempty" json:"name,omitempty"`
	Command string            `yaml:"command" json:"command"`
	Timeout time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	OnError string            `yaml:"on_error,omitempty" json:"on_error,omitempty"`
}

// Hooks groups hooks by phase.
type Hooks struct {
	PreExport  []Hook `yaml:"pre-export,omitempty" json:"pre-export,omitempty"`
	PostExport []Hook `yaml:"post-export,omitempty" json:"post-export,omitempty"`
}

// Empty reports whether no hooks are configured.
func (h Hooks) Empty() bool {
	return len(h.PreExport) == 0 && len(h.PostExport) == 0
}

// For returns the hooks of one phase.
func (h Hooks) For(phase Phase) []Hook {
	switch phase {
	case PreExport:
		return h.PreExport
	case PostExport:
		return h.PostExport
	}
	return nil
}

// Normalize applies defaults, drops hooks without a command and returns a
// warning for each one dropped.
func (h Hooks) Normalize() (Hooks, []string) {
	var warnings []string
	h.PreExport, warnings = normalize(h.PreExport, PreExport, warnings)
	h.PostExport, warnings = normalize(h.PostExport, PostExport, warnings)
	return h, warnings
}

func normalize(hooks []Hook, phase Phase, warnings []string) ([]Hook, []string) {
	var out []Hook
	for i, hook := range hooks {
		if strings.TrimSpace(hook.Command) == "" {
			warnings = append(warnings, fmt.Sprintf("%s hook %d has empty command; skipping", phase, i+1))
			continue
		}
		if hook.Timeout <= 0 {
			hook.Timeout = DefaultTimeout
		}
		if hook.OnError == "" {
			hook.OnError = OnErrorContinue
			if phase == PreExport {
				hook.OnError = OnErrorFail
			}
		}
		if hook.Name == "" {
			hook.Name = fmt.Sprintf("%s-%d", phase, i+1)
		}
		out = append(out, hook)
	}
	return out, warnings
}

// Validate rejects unknown on_error policies.
func (h Hooks) Validate() error {
	for _, phase := range []Phase{PreExport, PostExport} {
		for i, hook := range h.For(phase) {
			switch hook.OnError {
			case "", OnErrorFail, OnErrorContinue:
			default:
				return fmt.Errorf("%s hook %d: on_error %q: want fail or continue", phase, i+1, hook.OnError)
			}
		}
	}
	return nil
}

// hookYAML mirrors Hook with Timeout as text.
type hookYAML struct {
	Name    string            `yaml:"name,omitempty"`
	Command string            `yaml:"command"`
	Timeout string            `yaml:"timeout,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	OnError string            `yaml:"on_error,omitempty"`
}

// UnmarshalYAML accepts the timeout as a duration ("45s") or as a number
// of seconds.
func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	var dto hookYAML
	if err := node.Decode(&dto); err != nil {
		return err
	}
	*h = Hook{Name: dto.Name, Command: dto.Command, Env: dto.Env, OnError: dto.OnError}

	if dto.Timeout == "" {
		return nil
	}
	d, err := time.ParseDuration(dto.Timeout)
	if err == nil {
		h.Timeout = d
		return nil
	}
	var seconds float64
	if _, scanErr := fmt.Sscanf(dto.Timeout, "%f", &seconds); scanErr != nil {
		return fmt.Errorf("invalid timeout %q: %w", dto.Timeout, err)
	}
	h.Timeout = time.Duration(seconds * float64(time.Second))
	return nil
}

// MarshalYAML writes the timeout as a duration string.
func (h Hook) MarshalYAML() (any, error) {
	dto := hookYAML{Name: h.Name, Command: h.Command, Env: h.Env, OnError: h.OnError}
	if h.Timeout > 0 {
		dto.Timeout = h.Timeout.String()
	}
	return dto, nil
}
