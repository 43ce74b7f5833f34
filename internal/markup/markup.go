// Package markup превращает пользовательский markdown в безопасный HTML
// и извлекает упоминания пользователей вида u/<name>.
package markup

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/pribylovaa/go-social-platform/internal/models"
)

// Renderer — markdown (GFM) -> HTML -> санитайзер UGC.
// Безопасен для конкурентного использования.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New создаёт Renderer с настройками по умолчанию.
func New() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
			),
		),
		policy: policy,
	}
}

// Render возвращает очищенный HTML для src. Пустой ввод даёт пустую строку.
func (r *Renderer) Render(src string) (string, error) {
	const op = "markup/Render"

	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(r.policy.SanitizeBytes(buf.Bytes())), nil
}

var mentionRe = regexp.MustCompile(`(?i)(?:^|[^a-z0-9_/])u/(` + models.UsernamePattern + `)`)

// Mentions возвращает различные упоминания в порядке первого появления.
// Имена приводятся к нижнему регистру; сопоставление с реальными
// аккаунтами делает вызывающий.
func Mentions(body string) []string {
	matches := mentionRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}
