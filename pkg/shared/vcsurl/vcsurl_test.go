package vcsurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validateParse(t *testing.T, expected *VCSURL, got *VCSURL) {
	assert.Equal(t, expected.Namespace, got.Namespace, "Namespace mismatch")
	assert.Equal(t, expected.Repository, got.Repository, "Repository mismatch")
	assert.Equal(t, expected.HTTPRepoLink, got.HTTPRepoLink, "HTTPRepoLink mismatch")
	assert.Equal(t, expected.Raw, got.Raw, "Raw input mismatch")
	assert.Equal(t, expected.PullRequestId, got.PullRequestId, "PullRequestId mismatch")
	assert.Equal(t, expected.VCSType, got.VCSType, "VCSType mismatch")
	assert.NotNil(t, got.ParsedURL, "ParsedURL should not be nil")
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected VCSURL
	}{
		{
			name:  "GitHub git URL",
			input: "git@github.com:juice-shop/juice-shop.git",
			expected: VCSURL{
				Namespace:    "juice-shop",
				Repository:   "juice-shop",
				HTTPRepoLink: "https://github.com/juice-shop/juice-shop",
				Raw:          "git@github.com:juice-shop/juice-shop.git",
				VCSType:      Github,
			},
		},
		{
			name:  "GitHub pull request URL",
			input: "https://github.com/scan-io-git/revio/pull/42",
			expected: VCSURL{
				Namespace:     "scan-io-git",
				Repository:    "revio",
				PullRequestId: "42",
				HTTPRepoLink:  "https://github.com/scan-io-git/revio",
				Raw:           "https://github.com/scan-io-git/revio/pull/42",
				VCSType:       Github,
			},
		},
		{
			name:  "GitHub pull request files tab",
			input: "https://github.com/scan-io-git/revio/pull/42/files",
			expected: VCSURL{
				Namespace:     "scan-io-git",
				Repository:    "revio",
				PullRequestId: "42",
				HTTPRepoLink:  "https://github.com/scan-io-git/revio",
				Raw:           "https://github.com/scan-io-git/revio/pull/42/files",
				VCSType:       Github,
			},
		},
		{
			name:  "GitLab merge request in a subgroup",
			input: "https://gitlab.com/scanio-demo/backend/juice-shop/-/merge_requests/7",
			expected: VCSURL{
				Namespace:     "scanio-demo/backend",
				Repository:    "juice-shop",
				PullRequestId: "7",
				HTTPRepoLink:  "https://gitlab.com/scanio-demo/backend/juice-shop",
				Raw:           "https://gitlab.com/scanio-demo/backend/juice-shop/-/merge_requests/7",
				VCSType:       Gitlab,
			},
		},
		{
			name:  "GitLab web URL",
			input: "https://gitlab.com/scanio-demo/juice-shop",
			expected: VCSURL{
				Namespace:    "scanio-demo",
				Repository:   "juice-shop",
				HTTPRepoLink: "https://gitlab.com/scanio-demo/juice-shop",
				Raw:          "https://gitlab.com/scanio-demo/juice-shop",
				VCSType:      Gitlab,
			},
		},
		{
			name:  "generic host",
			input: "https://git.example.com/team/service",
			expected: VCSURL{
				Namespace:    "team",
				Repository:   "service",
				HTTPRepoLink: "https://git.example.com/team/service",
				Raw:          "https://git.example.com/team/service",
				VCSType:      GenericVCS,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			require.NoError(t, err)
			validateParse(t, &tc.expected, got)
		})
	}
}

func TestParseForVCSTypeOnSelfHostedGitlab(t *testing.T) {
	got, err := ParseForVCSType("https://git.example.com/team/api/-/merge_requests/12", Gitlab)
	require.NoError(t, err)
	assert.Equal(t, Gitlab, got.VCSType)
	assert.Equal(t, "team", got.Namespace)
	assert.Equal(t, "api", got.Repository)

	n, err := got.PullRequestNumber()
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, "team/api", got.FullName())
}

func TestParseInvalid(t *testing.T) {
	for _, raw := range []string{"not a url", "ftp://github.com/a/b"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestPullRequestNumber(t *testing.T) {
	u, err := Parse("https://github.com/a/b")
	require.NoError(t, err)
	_, err = u.PullRequestNumber()
	assert.Error(t, err)

	u, err = Parse("https://github.com/a/b/pull/abc")
	require.NoError(t, err)
	_, err = u.PullRequestNumber()
	assert.Error(t, err)
}

func TestStringToVCSType(t *testing.T) {
	assert.Equal(t, Github, StringToVCSType("GitHub"))
	assert.Equal(t, Gitlab, StringToVCSType("gitlab"))
	assert.Equal(t, UnknownVCS, StringToVCSType("bitbucket"))
	assert.Equal(t, "gitlab", Gitlab.String())
}
