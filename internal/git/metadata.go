package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
)

// RepositoryMetadata describes the git checkout a reviewed path belongs to.
type RepositoryMetadata struct {
	BranchName         *string
	CommitHash         *string
	RepositoryFullName *string
	RemoteURL          *string
	Subfolder          string
	RepoRootFolder     string
}

// CollectRepositoryMetadata collects branch name, commit hash, origin remote,
// subfolder and repository root for sourceFolder, which may be a file or a directory.
func CollectRepositoryMetadata(sourceFolder string) (*RepositoryMetadata, error) {
	if sourceFolder == "" {
		return &RepositoryMetadata{}, fmt.Errorf("source folder is not set")
	}

	if absSource, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = absSource
	}

	md := &RepositoryMetadata{
		RepoRootFolder: filepath.Clean(sourceFolder),
	}

	repoRootFolder, err := findGitRepositoryPath(sourceFolder)
	if err != nil {
		return md, err
	}

	md.RepoRootFolder = filepath.Clean(repoRootFolder)

	repo, err := git.PlainOpen(repoRootFolder)
	if err != nil {
		return md, fmt.Errorf("failed to open repository: %w", err)
	}

	if rel, err := filepath.Rel(repoRootFolder, sourceFolder); err == nil && rel != "." {
		md.Subfolder = filepath.ToSlash(rel)
	}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			branchName := head.Name().Short()
			md.BranchName = &branchName
		}

		hash := head.Hash().String()
		md.CommitHash = &hash
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			remoteURL := cfg.URLs[0]
			md.RemoteURL = &remoteURL
			repositoryFullName := normalizeRemote(remoteURL)
			md.RepositoryFullName = &repositoryFullName
		}
	}

	return md, nil
}

// normalizeRemote turns https and ssh remotes of the same repository into one "host/owner/name" form.
func normalizeRemote(remoteURL string) string {
	info, err := vcsurl.Parse(remoteURL)
	if err != nil || info.Name == "" {
		return strings.TrimSuffix(remoteURL, ".git")
	}
	return fmt.Sprintf("%s/%s/%s", info.Host, info.Username, strings.TrimSuffix(info.Name, ".git"))
}

// Fields returns the metadata as report metadata entries. Unknown values are omitted.
func (md *RepositoryMetadata) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"repository_root": md.RepoRootFolder,
	}
	if md.BranchName != nil {
		fields["branch"] = *md.BranchName
	}
	if md.CommitHash != nil {
		fields["commit"] = *md.CommitHash
	}
	if md.RepositoryFullName != nil {
		fields["repository"] = *md.RepositoryFullName
	}
	if md.Subfolder != "" {
		fields["subfolder"] = md.Subfolder
	}
	return fields
}

// findGitRepositoryPath walks up from sourceFolder to the closest repository root.
func findGitRepositoryPath(sourceFolder string) (string, error) {
	if sourceFolder == "" {
		return "", fmt.Errorf("source folder is not set")
	}

	// check if source folder is a subfolder of a git repository
	for {
		_, err := git.PlainOpen(sourceFolder)
		if err == nil {
			return sourceFolder, nil
		}

		// move up one level
		sourceFolder = filepath.Dir(sourceFolder)

		// check if reached the root folder
		if sourceFolder == filepath.Dir(sourceFolder) {
			break
		}
	}

	return "", ErrNotRepository
}
