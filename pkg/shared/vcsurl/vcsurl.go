package vcsurl

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

type VCSType int

const (
	UnknownVCS VCSType = iota // UnknownVCS means the type should be determined from the URL
	GenericVCS                // GenericVCS means the host is not a known provider
	Github                    // Github means that the VCS is Github
	Gitlab                    // Gitlab means that the VCS is Gitlab
)

// String returns the provider name used in configuration and report metadata.
func (t VCSType) String() string {
	switch t {
	case Github:
		return "github"
	case Gitlab:
		return "gitlab"
	case GenericVCS:
		return "generic"
	default:
		return "unknown"
	}
}

// StringToVCSType converts a string to a VCSType
func StringToVCSType(s string) VCSType {
	switch strings.ToLower(s) {
	case "github":
		return Github
	case "gitlab":
		return Gitlab
	case "generic":
		return GenericVCS
	default:
		return UnknownVCS
	}
}

// GetPathDirs splits the URL path into non-empty segments.
func GetPathDirs(path string) []string {
	var pathDirs []string
	for _, dir := range strings.Split(path, "/") {
		if dir != "" {
			pathDirs = append(pathDirs, dir)
		}
	}
	return pathDirs
}

// define allows schemes: http, https and ssh
var validSchemes = []string{"http", "https", "ssh"}

var scpLikeURL = regexp.MustCompile(`^git@([^:]+)\:(.*)$`)

func isValidScheme(scheme string) bool {
	for _, validScheme := range validSchemes {
		if scheme == validScheme {
			return true
		}
	}
	return false
}

// VCSURL represents a parsed VCS URL
type VCSURL struct {
	VCSType       VCSType
	Namespace     string
	Repository    string
	PullRequestId string
	HTTPRepoLink  string
	ParsedURL     *url.URL
	Raw           string
}

// determineVCSType determines the VCS type based on the hostname
func determineVCSType(host string) VCSType {
	switch {
	case strings.Contains(host, "github"):
		return Github
	case strings.Contains(host, "gitlab"):
		return Gitlab
	default:
		return GenericVCS
	}
}

// Parse parses a VCS URL and returns a VCSURL struct for unknown VCS Type
func Parse(raw string) (*VCSURL, error) {
	return ParseForVCSType(raw, UnknownVCS)
}

// ParseForVCSType parses a VCS URL and returns a VCSURL struct for a specific VCS Type
func ParseForVCSType(raw string, vcsType VCSType) (*VCSURL, error) {
	var vcsURL VCSURL
	vcsURL.Raw = raw

	// preparse special type of URLs like "git@<host>:<path>"
	normalized := strings.TrimSpace(raw)
	if parts := scpLikeURL.FindStringSubmatch(normalized); len(parts) == 3 {
		normalized = fmt.Sprintf("ssh://%s/%s", parts[1], parts[2])
	}
	normalized = strings.TrimSuffix(normalized, ".git")

	parsedURL, err := url.ParseRequestURI(normalized)
	if err != nil {
		return nil, err
	}
	vcsURL.ParsedURL = parsedURL

	if !isValidScheme(vcsURL.ParsedURL.Scheme) {
		return nil, fmt.Errorf("invalid scheme: %q", vcsURL.Raw)
	}

	effectiveVCSType := vcsType
	if effectiveVCSType == UnknownVCS {
		effectiveVCSType = determineVCSType(vcsURL.ParsedURL.Hostname())
	}
	vcsURL.VCSType = effectiveVCSType

	switch effectiveVCSType {
	case Github:
		return parseGithub(vcsURL)
	case Gitlab:
		return parseGitlab(vcsURL)
	default:
		return handleGenericVCS(vcsURL)
	}
}

// PullRequestNumber returns the numeric pull or merge request id.
func (u *VCSURL) PullRequestNumber() (int, error) {
	if u.PullRequestId == "" {
		return 0, fmt.Errorf("URL %q does not point to a pull request", u.Raw)
	}
	n, err := strconv.Atoi(u.PullRequestId)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid pull request id %q", u.PullRequestId)
	}
	return n, nil
}

// FullName returns "<namespace>/<repository>".
func (u *VCSURL) FullName() string {
	return path.Join(u.Namespace, u.Repository)
}

func handleGenericVCS(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)

	switch len(pathDirs) {
	case 0:
		return &u, nil
	case 1:
		u.Namespace = pathDirs[0]
		return &u, nil
	}

	u.Namespace = path.Join(pathDirs[0 : len(pathDirs)-1]...)
	u.Repository = pathDirs[len(pathDirs)-1]
	buildGenericURLs(&u)
	return &u, nil
}

// parseGitlab processes Gitlab URLs to extract repository information.
func parseGitlab(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)

	mergeRequestIndex := -1
	for i := 3; i < len(pathDirs); i++ {
		if pathDirs[i] == "merge_requests" {
			mergeRequestIndex = i
			break
		}
	}

	switch {
	// https://gitlab.com/
	case len(pathDirs) == 0:
		return &u, nil
	// https://gitlab.com/<group_name>
	case len(pathDirs) == 1:
		u.Namespace = pathDirs[0]
		return &u, nil
	default:
		if mergeRequestIndex > 2 && mergeRequestIndex+1 < len(pathDirs) && pathDirs[mergeRequestIndex-1] == "-" {
			// https://gitlab.com/<group_name>/../<project_name>/-/merge_requests/<id>
			u.Namespace = path.Join(pathDirs[:mergeRequestIndex-2]...)
			u.Repository = pathDirs[mergeRequestIndex-2]
			u.PullRequestId = pathDirs[mergeRequestIndex+1]
		} else {
			u.Namespace = path.Join(pathDirs[:len(pathDirs)-1]...)
			u.Repository = pathDirs[len(pathDirs)-1]
		}
		buildGenericURLs(&u)
		return &u, nil
	}
}

// parseGithub processes Github URLs to extract repository information.
func parseGithub(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)

	switch {
	// https://github.com/
	case len(pathDirs) == 0:
		return &u, nil
	// https://github.com/<owner>
	case len(pathDirs) == 1:
		u.Namespace = pathDirs[0]
		return &u, nil
	// https://github.com/<owner>/<repo>/pull/<id>
	case len(pathDirs) > 3:
		u.Namespace = pathDirs[0]
		u.Repository = pathDirs[1]
		if pathDirs[2] == "pull" {
			u.PullRequestId = pathDirs[3]
		}
		buildGenericURLs(&u)
		return &u, nil
	// https://github.com/<owner>/<repo>/
	default:
		u.Namespace = pathDirs[0]
		u.Repository = pathDirs[1]
		buildGenericURLs(&u)
		return &u, nil
	}
}

// buildGenericURLs sets the web URL of the repository.
func buildGenericURLs(u *VCSURL) {
	u.HTTPRepoLink = fmt.Sprintf("https://%s/%s/%s", u.ParsedURL.Host, u.Namespace, u.Repository)
}
