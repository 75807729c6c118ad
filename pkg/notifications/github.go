package notifications

import (
	"strings"

	"github.com/google/go-github/v57/github"
)

func shortSHA(sha string) string {
	if len(sha) < 8 {
		return sha
	}
	return sha[:7]
}

// pullRequestAction tells merged pull requests apart from closed ones.
func pullRequestAction(action string, pr *github.PullRequest) string {
	if action == "closed" && pr.GetMerged() {
		return "merged"
	}
	return action
}

func fileCounts(commits []*github.HeadCommit) (added int, modified int, removed int) {
	for _, c := range commits {
		added += len(c.Added)
		modified += len(c.Modified)
		removed += len(c.Removed)
	}
	return added, modified, removed
}

func firstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i != -1 {
		return text[:i]
	}
	return text
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

// branch turns refs/heads/main into main.
func branch(ref string) string {
	return strings.TrimPrefix(strings.TrimPrefix(ref, "refs/heads/"), "refs/tags/")
}
