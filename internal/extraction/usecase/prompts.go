package usecase

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/pkg/datemath"
)

//go:embed prompts.yaml
var defaultPromptsYAML []byte

type promptFile struct {
	System       string `yaml:"system"`
	FirstTurn    string `yaml:"first_turn"`
	Continuation string `yaml:"continuation"`
}

// PromptSet holds the parsed extraction templates.
type PromptSet struct {
	system       string
	firstTurn    *template.Template
	continuation *template.Template
}

type promptData struct {
	Input           string
	Anchors         datemath.Anchors
	CurrentTaskInfo string
	CurrentField    string
	PreviousContext string
}

// LoadPrompts reads the prompt set. An empty path uses the embedded
// defaults; keys missing from the file fall back to them too.
func LoadPrompts(path string) (*PromptSet, error) {
	var def promptFile
	if err := yaml.Unmarshal(defaultPromptsYAML, &def); err != nil {
		return nil, fmt.Errorf("embedded prompts: %w", err)
	}

	pf := def
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompts %s: %w", path, err)
		}
		var override promptFile
		if err := yaml.Unmarshal(raw, &override); err != nil {
			return nil, fmt.Errorf("parse prompts %s: %w", path, err)
		}
		if override.System != "" {
			pf.System = override.System
		}
		if override.FirstTurn != "" {
			pf.FirstTurn = override.FirstTurn
		}
		if override.Continuation != "" {
			pf.Continuation = override.Continuation
		}
	}

	return newPromptSet(pf)
}

func newPromptSet(pf promptFile) (*PromptSet, error) {
	if strings.TrimSpace(pf.FirstTurn) == "" || strings.TrimSpace(pf.Continuation) == "" {
		return nil, extraction.ErrTemplateNotFound
	}
	first, err := template.New("first_turn").Option("missingkey=error").Parse(pf.FirstTurn)
	if err != nil {
		return nil, fmt.Errorf("first_turn template: %w", err)
	}
	cont, err := template.New("continuation").Option("missingkey=error").Parse(pf.Continuation)
	if err != nil {
		return nil, fmt.Errorf("continuation template: %w", err)
	}
	return &PromptSet{
		system:       strings.TrimSpace(pf.System),
		firstTurn:    first,
		continuation: cont,
	}, nil
}

// render returns the system instruction and the user prompt for one turn.
func (p *PromptSet) render(firstTurn bool, data promptData) (string, string, error) {
	tmpl := p.continuation
	if firstTurn {
		tmpl = p.firstTurn
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return p.system, strings.TrimSpace(sb.String()), nil
}
