package reviewpr

import (
	"fmt"
	"os"

	"github.com/scan-io-git/revio/internal/ci"
	"github.com/scan-io-git/revio/internal/render"
	"github.com/scan-io-git/revio/internal/vcs"
	"github.com/scan-io-git/revio/pkg/shared/config"
	"github.com/scan-io-git/revio/pkg/shared/errors"
	"github.com/scan-io-git/revio/pkg/shared/vcsurl"
)

// lookupEnv reads the CI environment when neither a URL nor a repository is given.
var lookupEnv ci.LookupFunc = os.Getenv

// validateReviewPRArgs validates the arguments of the review-pr command and builds the pull request reference.
func validateReviewPRArgs(options *RunOptionsReviewPR, args []string, cfg config.VCS) (vcs.PullRequestRef, error) {
	if len(args) > 0 {
		if options.URL != "" {
			return vcs.PullRequestRef{}, errors.NewValidationError("url", "you cannot use a 'url' flag and a positional URL at the same time")
		}
		options.URL = args[0]
	}

	provider := vcsurl.UnknownVCS
	if options.Provider != "" {
		provider = vcsurl.StringToVCSType(options.Provider)
		if provider != vcsurl.Github && provider != vcsurl.Gitlab {
			return vcs.PullRequestRef{}, errors.NewValidationError("provider", fmt.Sprintf("unsupported provider %q, expected github or gitlab", options.Provider))
		}
	}

	if _, err := render.ParseFormat(options.Format); err != nil {
		return vcs.PullRequestRef{}, err
	}

	switch {
	case options.URL != "" && (options.Repository != "" || options.PRNumber != 0):
		return vcs.PullRequestRef{}, errors.NewValidationError("url", "a URL cannot be combined with 'repo' or 'pr-number'")
	case options.URL != "":
		return vcs.ParsePullRequestURL(options.URL, provider)
	case options.Repository != "":
		if provider == vcsurl.UnknownVCS {
			provider = vcsurl.Github
		}
		return vcs.NewPullRequestRef(provider, options.Repository, options.PRNumber, vcs.WebBase(cfg, provider))
	default:
		env := ci.Detect(lookupEnv)
		if !env.HasPullRequest() || (provider != vcsurl.UnknownVCS && provider != env.Provider) {
			return vcs.PullRequestRef{}, errors.NewValidationError("url", "provide a pull request URL or 'repo' with 'pr-number'")
		}
		webBase := env.ServerURL
		if webBase == "" {
			webBase = vcs.WebBase(cfg, env.Provider)
		}
		return vcs.NewPullRequestRef(env.Provider, env.RepositoryFullName, env.PullRequest, webBase)
	}
}
