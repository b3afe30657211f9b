// Package domain contains the value types shared by the repository queries,
// the diagnostic extractor and the hook outcome model.
package domain

// Repository is an explicit handle on a working tree. Every query is bound to
// one, so several fixtures can be inspected from the same process.
type Repository struct {
	Root       string `json:"root"`
	HeadBranch string `json:"head_branch,omitempty"`
	HeadCommit string `json:"head_commit,omitempty"`
	Detached   bool   `json:"detached"`
}

// FileScope selects the files a hook applies to.
type FileScope struct {
	// Paths are file or directory specifiers. A directory ends with a path
	// separator or names an existing directory. Empty means the whole tree.
	Paths []string

	// IncludeUntracked adds untracked, non-ignored files under directories.
	IncludeUntracked bool

	// Ref lists the tree of this commit instead of the index.
	Ref string
}

// Branch is a short local branch name.
type Branch string

// Submodule is a submodule registration. For a removed submodule URL points at
// a location where its previous content can still be read.
type Submodule struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	URL           string `json:"url"`
	RegisteredURL string `json:"registered_url"`
	Resolved      bool   `json:"resolved"`
}
