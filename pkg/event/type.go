package event

import (
	"fmt"
	"strings"
)

// Type is the GitHub event name a delivery was sent for, as found in the
// X-GitHub-Event header.
type Type string

const (
	TypeCommitComment            Type = "commit_comment"
	TypeCreate                   Type = "create"
	TypeDelete                   Type = "delete"
	TypeDeployment               Type = "deployment"
	TypeDeploymentStatus         Type = "deployment_status"
	TypeFork                     Type = "fork"
	TypeGollum                   Type = "gollum"
	TypeIssueComment             Type = "issue_comment"
	TypeIssues                   Type = "issues"
	TypeLabel                    Type = "label"
	TypeMember                   Type = "member"
	TypeMembership               Type = "membership"
	TypeMilestone                Type = "milestone"
	TypeOrganization             Type = "organization"
	TypeOrgBlock                 Type = "org_block"
	TypePageBuild                Type = "page_build"
	TypePublic                   Type = "public"
	TypePullRequest              Type = "pull_request"
	TypePullRequestReview        Type = "pull_request_review"
	TypePullRequestReviewComment Type = "pull_request_review_comment"
	TypePush                     Type = "push"
	TypeRelease                  Type = "release"
	TypeRepository               Type = "repository"
	TypeTeam                     Type = "team"
	TypeTeamAdd                  Type = "team_add"
	TypeWatch                    Type = "watch"
)

// Types lists every supported event type.
var Types = []Type{
	TypeCommitComment,
	TypeCreate,
	TypeDelete,
	TypeDeployment,
	TypeDeploymentStatus,
	TypeFork,
	TypeGollum,
	TypeIssueComment,
	TypeIssues,
	TypeLabel,
	TypeMember,
	TypeMembership,
	TypeMilestone,
	TypeOrganization,
	TypeOrgBlock,
	TypePageBuild,
	TypePublic,
	TypePullRequest,
	TypePullRequestReview,
	TypePullRequestReviewComment,
	TypePush,
	TypeRelease,
	TypeRepository,
	TypeTeam,
	TypeTeamAdd,
	TypeWatch,
}

// UnsupportedTypeError is returned for event names outside of Types.
type UnsupportedTypeError struct {
	Name string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported event type %q", e.Name)
}

// ParseType resolves an event name case-insensitively.
func ParseType(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := decoders[t]; !ok {
		return "", &UnsupportedTypeError{Name: name}
	}
	return t, nil
}

// ParseTypes resolves a list of event names, failing on the first unknown one.
func ParseTypes(names []string) ([]Type, error) {
	types := make([]Type, 0, len(names))
	for _, name := range names {
		t, err := ParseType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}
