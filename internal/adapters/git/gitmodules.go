package git

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/xvierd/hookscope/internal/domain"
)

const gitmodulesFile = ".gitmodules"

// registration is one [submodule "<name>"] section of .gitmodules.
type registration struct {
	Name string
	Path string
	URL  string
}

// parseGitmodules decodes .gitmodules content, keeping section order.
// Sections without a path are ignored.
func parseGitmodules(data []byte) ([]registration, error) {
	cfg := gitconfig.New()
	if err := gitconfig.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", gitmodulesFile, err)
	}

	var regs []registration
	for _, sub := range cfg.Section("submodule").Subsections {
		p := normalizeSubmodulePath(sub.Option("path"))
		if p == "" {
			continue
		}
		regs = append(regs, registration{
			Name: sub.Name,
			Path: p,
			URL:  sub.Option("url"),
		})
	}
	return regs, nil
}

func normalizeSubmodulePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return path.Clean(strings.TrimSuffix(p, "/"))
}

// indexByPath maps each path to its last registration. Paths declared by
// more than one section are reported; the later section wins.
func indexByPath(regs []registration) (map[string]registration, []*domain.AmbiguousRegistrationError) {
	byPath := make(map[string]registration, len(regs))
	names := make(map[string][]string, len(regs))
	for _, reg := range regs {
		byPath[reg.Path] = reg
		names[reg.Path] = append(names[reg.Path], reg.Name)
	}

	var ambiguous []*domain.AmbiguousRegistrationError
	for _, reg := range regs {
		n := names[reg.Path]
		if len(n) < 2 || byPath[reg.Path].Name != reg.Name {
			continue
		}
		ambiguous = append(ambiguous, &domain.AmbiguousRegistrationError{
			Path:   reg.Path,
			Names:  n,
			Chosen: reg.Name,
		})
		delete(names, reg.Path)
	}
	return byPath, ambiguous
}

// registrations reads .gitmodules from the tree of ref, or from the index
// when ref is empty. A missing file yields no registrations.
func (e *Engine) registrations(ctx context.Context, ref string) ([]registration, error) {
	var (
		out string
		err error
	)
	if ref == "" {
		out, err = e.git(ctx, "ls-files", "-z", "--", gitmodulesFile)
	} else {
		out, err = e.git(ctx, "ls-tree", "-z", ref, "--", gitmodulesFile)
	}
	if err != nil {
		return nil, err
	}
	if len(splitNul(out)) == 0 {
		return nil, nil
	}

	blob, err := e.git(ctx, "cat-file", "blob", ref+":"+gitmodulesFile)
	if err != nil {
		return nil, err
	}
	return parseGitmodules([]byte(blob))
}
