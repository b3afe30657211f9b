package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/xvierd/hookscope/internal/domain"
)

// StagedSubmoduleRemovals returns the submodules whose gitlink is deleted in
// the index relative to HEAD, in the order git reports them. Registrations
// are read from HEAD because staging the removal usually rewrites
// .gitmodules as well.
func (e *Engine) StagedSubmoduleRemovals(ctx context.Context) ([]domain.Submodule, error) {
	removals := []domain.Submodule{}

	head, ok, err := e.resolveCommit(ctx, "HEAD")
	if err != nil {
		return nil, err
	}
	if !ok {
		// unborn branch: nothing was committed, so nothing can be removed
		return removals, nil
	}

	out, err := e.git(ctx, "diff-index", "--cached", "--no-renames", "-z", head, "--")
	if err != nil {
		return nil, err
	}
	paths := removedGitlinks(out)
	if len(paths) == 0 {
		return removals, nil
	}

	regs, err := e.registrations(ctx, head)
	if err != nil {
		return nil, err
	}
	byPath, ambiguous := indexByPath(regs)
	for _, amb := range ambiguous {
		e.logger.Warn("ambiguous submodule registration", "path", amb.Path, "error", amb)
	}

	commonDir, err := e.commonDir(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		reg, ok := byPath[p]
		if !ok {
			e.logger.Debug("removed gitlink has no registration", "path", p)
			continue
		}
		sub := domain.Submodule{
			Name:          reg.Name,
			Path:          p,
			RegisteredURL: reg.URL,
		}
		sub.URL, sub.Resolved = e.contentLocation(commonDir, reg)
		if !sub.Resolved {
			e.logger.Warn("removed submodule content is not readable", "path", p, "url", reg.URL)
		}
		removals = append(removals, sub)
	}
	return removals, nil
}

// removedGitlinks parses raw -z diff output and returns the paths whose old
// side is a gitlink and whose new side is not. Additions are never included.
func removedGitlinks(out string) []string {
	records := splitNul(out)
	seen := make(map[string]struct{})
	var paths []string
	for i := 0; i < len(records); i++ {
		header := records[i]
		if !strings.HasPrefix(header, ":") || i+1 >= len(records) {
			continue
		}
		i++
		p := records[i]

		// :<old mode> <new mode> <old sha> <new sha> <status>
		fields := strings.Fields(header[1:])
		if len(fields) < 5 {
			continue
		}
		if fields[0] != gitlinkMode || fields[1] == gitlinkMode {
			continue
		}
		p = normalizeSubmodulePath(p)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths
}

// contentLocation finds a directory where the submodule's committed objects
// can still be read: git's per-submodule store under the common git dir, or
// the registered URL when it is a local directory. This is best effort; ok
// is false when neither exists and the registered URL is returned as is.
func (e *Engine) contentLocation(commonDir string, reg registration) (string, bool) {
	modules := filepath.Join(commonDir, "modules", filepath.FromSlash(reg.Name))
	if isDir(modules) {
		return modules, true
	}

	local := strings.TrimPrefix(reg.URL, "file://")
	if local != "" && !strings.Contains(local, "://") {
		if !filepath.IsAbs(local) {
			local = filepath.Join(e.repo.Root, filepath.FromSlash(local))
		}
		if isDir(local) {
			return local, true
		}
	}
	return reg.URL, false
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
