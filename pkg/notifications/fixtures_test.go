package notifications

import (
	"testing"

	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/google/uuid"
)

const (
	repository = `"repository": {"full_name": "octo-org/hello", "html_url": "https://github.com/octo-org/hello"}`
	sender     = `"sender": {"login": "octocat", "html_url": "https://github.com/octocat", "avatar_url": "https://avatars.githubusercontent.com/u/583231"}`
	org        = `"organization": {"login": "octo-org"}`
)

const pushBody = `{
  "ref": "refs/heads/main",
  "compare": "https://github.com/octo-org/hello/compare/1a2b...3c4d",
  "commits": [
    {"id": "1a2b", "message": "Fix the build\n\nThe linter was unhappy.", "added": ["a.go"], "modified": ["b.go", "c.go"], "removed": []},
    {"id": "3c4d", "message": "Update README", "added": [], "modified": ["README.md"], "removed": ["old.go"]}
  ],
  ` + repository + `,
  ` + sender + `
}`

const issuesBody = `{
  "action": "opened",
  "issue": {
    "number": 7,
    "title": "Crash on start",
    "body": "It crashes.",
    "html_url": "https://github.com/octo-org/hello/issues/7",
    "user": {"login": "octocat", "html_url": "https://github.com/octocat"},
    "labels": [{"name": "bug"}, {"name": "p1"}]
  },
  ` + repository + `,
  ` + sender + `
}`

const gollumBody = `{
  "pages": [{"page_name": "Home", "action": "edited"}],
  ` + repository + `,
  ` + sender + `
}`

// bodies has one realistic delivery for every event type.
var bodies = map[event.Type]string{
	event.TypeCommitComment:            `{"action": "created", "comment": {"commit_id": "0123456789abcdef", "html_url": "https://github.com/c", "body": "nice"}, ` + repository + `, ` + sender + `}`,
	event.TypeCreate:                   `{"ref": "v1.0.0", "ref_type": "tag", ` + repository + `, ` + sender + `}`,
	event.TypeDelete:                   `{"ref": "feature", "ref_type": "branch", ` + repository + `, ` + sender + `}`,
	event.TypeDeployment:               `{"deployment": {"environment": "production", "description": "deploy"}, ` + repository + `, ` + sender + `}`,
	event.TypeDeploymentStatus:         `{"deployment": {"environment": "production"}, "deployment_status": {"state": "success", "target_url": "https://example.com"}, ` + repository + `, ` + sender + `}`,
	event.TypeFork:                     `{"forkee": {"full_name": "octocat/hello", "html_url": "https://github.com/octocat/hello"}, ` + repository + `, ` + sender + `}`,
	event.TypeGollum:                   gollumBody,
	event.TypeIssueComment:             `{"action": "created", "issue": {"number": 7, "title": "Crash on start"}, "comment": {"html_url": "https://github.com/i", "body": "same here"}, ` + repository + `, ` + sender + `}`,
	event.TypeIssues:                   issuesBody,
	event.TypeLabel:                    `{"action": "created", "label": {"name": "bug", "color": "d73a4a"}, ` + repository + `, ` + sender + `}`,
	event.TypeMember:                   `{"action": "added", "member": {"login": "hubot"}, ` + repository + `, ` + sender + `}`,
	event.TypeMembership:               `{"action": "added", "scope": "team", "member": {"login": "hubot"}, "team": {"name": "core"}, ` + org + `, ` + sender + `}`,
	event.TypeMilestone:                `{"action": "closed", "milestone": {"number": 1, "title": "v1", "open_issues": 1, "closed_issues": 2}, ` + repository + `, ` + sender + `}`,
	event.TypeOrganization:             `{"action": "member_added", "membership": {"user": {"login": "hubot"}, "role": "member"}, ` + org + `, ` + sender + `}`,
	event.TypeOrgBlock:                 `{"action": "blocked", "blocked_user": {"login": "spammer"}, ` + org + `, ` + sender + `}`,
	event.TypePageBuild:                `{"build": {"status": "built", "commit": "0123456789abcdef", "duration": 2104}, ` + repository + `, ` + sender + `}`,
	event.TypePublic:                   `{` + repository + `, ` + sender + `}`,
	event.TypePullRequest:              `{"action": "closed", "pull_request": {"number": 2, "title": "Add feature", "merged": true, "merged_at": "2024-01-02T03:04:05Z", "user": {"login": "octocat"}}, ` + repository + `, ` + sender + `}`,
	event.TypePullRequestReview:        `{"action": "submitted", "review": {"state": "APPROVED", "html_url": "https://github.com/r"}, "pull_request": {"number": 2, "title": "Add feature"}, ` + repository + `, ` + sender + `}`,
	event.TypePullRequestReviewComment: `{"action": "created", "comment": {"html_url": "https://github.com/rc", "body": "typo"}, "pull_request": {"number": 2, "title": "Add feature"}, ` + repository + `, ` + sender + `}`,
	event.TypePush:                     pushBody,
	event.TypeRelease:                  `{"action": "published", "release": {"tag_name": "v1.0.0", "name": "First", "html_url": "https://github.com/rel", "tarball_url": "https://t", "zipball_url": "https://z", "assets": [{"name": "hello-linux", "browser_download_url": "https://d"}]}, ` + repository + `, ` + sender + `}`,
	event.TypeRepository:               `{"action": "created", ` + repository + `, ` + sender + `}`,
	event.TypeTeam:                     `{"action": "added_to_repository", "team": {"name": "core", "permission": "push"}, ` + org + `, ` + repository + `, ` + sender + `}`,
	event.TypeTeamAdd:                  `{"team": {"name": "core", "permission": "pull"}, ` + repository + `, ` + sender + `}`,
	event.TypeWatch:                    `{"action": "started", ` + repository + `, ` + sender + `}`,
}

func payload(t *testing.T, typ event.Type, body string) *event.Payload {
	t.Helper()
	e, err := event.Classify(string(typ), []byte(body))
	if err != nil {
		t.Fatalf("cannot classify %s fixture: %s", typ, err)
	}
	return event.NewPayload(uuid.New(), e)
}
