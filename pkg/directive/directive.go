package directive

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultText = `[System prompt]
Answer the user's questions according to the following policy:

1. When one of the available tools fits the request, use it to build your answer.
2. When no tool fits, keep the conversation natural.
3. Whether or not a tool is used, always explain politely and clearly.
4. Understand the intent behind the user's question and answer it appropriately.`

// Directive is the policy text sent as the first turn of every session.
type Directive struct {
	Name        string
	Description string
	Text        string
	Path        string
}

// frontMatter mirrors the optional YAML front matter of a directive file.
type frontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Default returns the built-in directive.
func Default() *Directive {
	return &Directive{
		Name:        "default",
		Description: "Built-in response policy",
		Text:        defaultText,
	}
}

// Load returns the directive stored at path, or the built-in one when path
// is empty.
func Load(path string) (*Directive, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return parseFile(path)
}

func parseFile(path string) (*Directive, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, body, err := splitFrontMatter(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("parse %s: directive body is empty", path)
	}

	name := strings.TrimSpace(fm.Name)
	if name == "" {
		name = path
	}
	return &Directive{
		Name:        name,
		Description: strings.TrimSpace(fm.Description),
		Text:        body,
		Path:        path,
	}, nil
}

// splitFrontMatter separates optional YAML front matter from the body.
// Files without a leading "---" line are treated as body only.
func splitFrontMatter(content string) (frontMatter, string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return frontMatter{}, content, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return frontMatter{}, "", fmt.Errorf("unterminated YAML front matter")
	}

	fmText := strings.Join(lines[1:end], "\n")
	var fm frontMatter
	if err := yaml.Unmarshal([]byte(fmText), &fm); err != nil {
		return frontMatter{}, "", err
	}
	return fm, strings.Join(lines[end+1:], "\n"), nil
}
