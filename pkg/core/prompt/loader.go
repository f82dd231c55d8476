package prompt

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"
)

//go:embed defaults
var defaults embed.FS

// LoadDefaults registers the embedded prompts.
func (r *Registry) LoadDefaults() error {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		return err
	}
	return r.loadFS(sub)
}

// LoadFromDirectory registers every .json prompt under dir, replacing
// defaults with the same id. Layout: dir/<category>/<name>.json.
func (r *Registry) LoadFromDirectory(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("prompts directory not found: %s", dir)
	}
	before := r.Count()
	if err := r.loadFS(os.DirFS(dir)); err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}
	fmt.Printf("[prompt.Loader] Loaded prompts from %s (%d -> %d)\n", dir, before, r.Count())
	return nil
}

func (r *Registry) loadFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		var pt PromptTemplate
		if err := json.Unmarshal(data, &pt); err != nil {
			return fmt.Errorf("failed to parse %s: %w", p, err)
		}

		// narrative/summary.json -> narrative.summary
		if pt.ID == "" {
			pt.ID = strings.ReplaceAll(strings.TrimSuffix(p, ".json"), "/", ".")
		}
		if pt.Category == "" {
			pt.Category = "default"
			if dir := path.Dir(p); dir != "." {
				pt.Category = strings.Split(dir, "/")[0]
			}
		}
		return r.Register(&pt)
	})
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return formatBRL(v) },
	"pct":   func(v float64) string { return strings.Replace(fmt.Sprintf("%.1f%%", v), ".", ",", 1) },
}

// formatBRL renders v as R$ 1.234,56.
func formatBRL(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, b.String(), frac)
}

// RenderUserPrompt executes the user prompt template with the given context
func RenderUserPrompt(pt *PromptTemplate, ctx *PromptExecutionContext) (string, error) {
	if pt.UserPromptTmpl == "" {
		return "", nil
	}

	tmpl, err := template.New(pt.ID).Funcs(funcs).Option("missingkey=error").Parse(pt.UserPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx.Variables); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
