package git

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xvierd/hookscope/internal/domain"
)

const gitlinkMode = "160000"

// ListFiles expands scope into a sorted set of absolute paths. Files are
// taken verbatim; directories expand to their tracked files, never
// descending into a registered submodule.
func (e *Engine) ListFiles(ctx context.Context, scope domain.FileScope) ([]string, error) {
	if scope.Ref != "" {
		if err := validateRef(scope.Ref); err != nil {
			return nil, err
		}
	}

	files := make(map[string]struct{})
	var dirs []string
	for _, p := range scope.Paths {
		if p == "" {
			continue
		}
		if e.isDirSpec(p) {
			rel, err := e.relative(p)
			if err != nil {
				return nil, err
			}
			dirs = append(dirs, rel)
			continue
		}
		files[e.absolute(p)] = struct{}{}
	}
	if len(scope.Paths) == 0 {
		dirs = []string{"."}
	}

	if len(dirs) > 0 {
		tracked, err := e.expandDirs(ctx, scope, dirs)
		if err != nil {
			return nil, err
		}
		for _, rel := range tracked {
			files[filepath.Join(e.repo.Root, filepath.FromSlash(rel))] = struct{}{}
		}
	}

	result := make([]string, 0, len(files))
	for f := range files {
		result = append(result, f)
	}
	sort.Strings(result)
	return result, nil
}

// expandDirs lists the files under dirs, relative to the root, with every
// submodule root and its contents removed.
func (e *Engine) expandDirs(ctx context.Context, scope domain.FileScope, dirs []string) ([]string, error) {
	var (
		entries []treeEntry
		err     error
	)
	if scope.Ref != "" {
		entries, err = e.lsTree(ctx, scope.Ref, dirs)
	} else {
		entries, err = e.lsFiles(ctx, dirs)
	}
	if err != nil {
		return nil, err
	}

	regs, err := e.registrations(ctx, scope.Ref)
	if err != nil {
		return nil, err
	}
	roots := make(map[string]struct{}, len(regs))
	for _, reg := range regs {
		roots[reg.Path] = struct{}{}
	}
	for _, entry := range entries {
		if entry.gitlink {
			roots[entry.path] = struct{}{}
		}
	}

	var paths []string
	for _, entry := range entries {
		if !entry.gitlink {
			paths = append(paths, entry.path)
		}
	}
	if scope.IncludeUntracked && scope.Ref == "" {
		untracked, err := e.untrackedFiles(ctx, dirs)
		if err != nil {
			return nil, err
		}
		paths = append(paths, untracked...)
	}

	kept := paths[:0]
	for _, p := range paths {
		if insideSubmodule(p, roots) {
			e.logger.Debug("skipping submodule path", "path", p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

type treeEntry struct {
	path    string
	gitlink bool
}

// lsFiles lists index entries under dirs.
func (e *Engine) lsFiles(ctx context.Context, dirs []string) ([]treeEntry, error) {
	args := append([]string{"ls-files", "-z", "--stage", "--"}, dirs...)
	out, err := e.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	var entries []treeEntry
	for _, rec := range splitNul(out) {
		// <mode> SP <object> SP <stage> TAB <path>
		meta, p, ok := strings.Cut(rec, "\t")
		if !ok {
			continue
		}
		mode, _, _ := strings.Cut(meta, " ")
		entries = append(entries, treeEntry{path: p, gitlink: mode == gitlinkMode})
	}
	return entries, nil
}

// lsTree lists the entries of ref's tree under dirs.
func (e *Engine) lsTree(ctx context.Context, ref string, dirs []string) ([]treeEntry, error) {
	args := append([]string{"ls-tree", "-r", "-z", ref, "--"}, dirs...)
	out, err := e.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	var entries []treeEntry
	for _, rec := range splitNul(out) {
		// <mode> SP <type> SP <object> TAB <path>
		meta, p, ok := strings.Cut(rec, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		gitlink := len(fields) > 1 && fields[1] == "commit"
		entries = append(entries, treeEntry{path: p, gitlink: gitlink})
	}
	return entries, nil
}

// untrackedFiles lists untracked, non-ignored files under dirs.
func (e *Engine) untrackedFiles(ctx context.Context, dirs []string) ([]string, error) {
	args := append([]string{"ls-files", "-z", "--others", "--exclude-standard", "--"}, dirs...)
	out, err := e.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, rec := range splitNul(out) {
		// nested repositories are reported as directories
		if strings.HasSuffix(rec, "/") {
			continue
		}
		files = append(files, rec)
	}
	return files, nil
}

func insideSubmodule(p string, roots map[string]struct{}) bool {
	for dir := p; dir != "." && dir != "/" && dir != ""; dir = path.Dir(dir) {
		if _, ok := roots[dir]; ok {
			return true
		}
	}
	return false
}

func (e *Engine) isDirSpec(p string) bool {
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(os.PathSeparator)) {
		return true
	}
	info, err := os.Stat(e.absolute(p))
	return err == nil && info.IsDir()
}

func (e *Engine) absolute(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(e.repo.Root, p)
}

// relative turns a directory specifier into a root-relative pathspec.
func (e *Engine) relative(p string) (string, error) {
	rel, err := filepath.Rel(e.repo.Root, e.absolute(p))
	if err != nil {
		return "", &domain.QueryError{Args: []string{"ls-files", p}, Dir: e.repo.Root, Err: err}
	}
	return filepath.ToSlash(rel), nil
}
