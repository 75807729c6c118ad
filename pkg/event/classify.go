package event

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-github/v57/github"
	"github.com/pkg/errors"
)

// DecodeError is returned when a body does not match the schema of the
// event type it was delivered for.
type DecodeError struct {
	Type Type
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s event: %s", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type decoder func(body []byte) (Event, error)

func decodeAs[T any](wrap func(*T) Event) decoder {
	return func(body []byte) (Event, error) {
		payload := new(T)
		if err := json.Unmarshal(body, payload); err != nil {
			return nil, err
		}
		return wrap(payload), nil
	}
}

var decoders = map[Type]decoder{
	TypeCommitComment:            decodeAs(func(e *github.CommitCommentEvent) Event { return CommitComment{e} }),
	TypeCreate:                   decodeAs(func(e *github.CreateEvent) Event { return Create{e} }),
	TypeDelete:                   decodeAs(func(e *github.DeleteEvent) Event { return Delete{e} }),
	TypeDeployment:               decodeAs(func(e *github.DeploymentEvent) Event { return Deployment{e} }),
	TypeDeploymentStatus:         decodeAs(func(e *github.DeploymentStatusEvent) Event { return DeploymentStatus{e} }),
	TypeFork:                     decodeAs(func(e *github.ForkEvent) Event { return Fork{e} }),
	TypeGollum:                   decodeAs(func(e *github.GollumEvent) Event { return Gollum{e} }),
	TypeIssueComment:             decodeAs(func(e *github.IssueCommentEvent) Event { return IssueComment{e} }),
	TypeIssues:                   decodeAs(func(e *github.IssuesEvent) Event { return Issues{e} }),
	TypeLabel:                    decodeAs(func(e *github.LabelEvent) Event { return Label{e} }),
	TypeMember:                   decodeAs(func(e *github.MemberEvent) Event { return Member{e} }),
	TypeMembership:               decodeAs(func(e *github.MembershipEvent) Event { return Membership{e} }),
	TypeMilestone:                decodeAs(func(e *github.MilestoneEvent) Event { return Milestone{e} }),
	TypeOrganization:             decodeAs(func(e *github.OrganizationEvent) Event { return Organization{e} }),
	TypeOrgBlock:                 decodeAs(func(e *github.OrgBlockEvent) Event { return OrgBlock{e} }),
	TypePageBuild:                decodeAs(func(e *github.PageBuildEvent) Event { return PageBuild{e} }),
	TypePublic:                   decodeAs(func(e *github.PublicEvent) Event { return Public{e} }),
	TypePullRequest:              decodeAs(func(e *github.PullRequestEvent) Event { return PullRequest{e} }),
	TypePullRequestReview:        decodeAs(func(e *github.PullRequestReviewEvent) Event { return PullRequestReview{e} }),
	TypePullRequestReviewComment: decodeAs(func(e *github.PullRequestReviewCommentEvent) Event { return PullRequestReviewComment{e} }),
	TypePush:                     decodeAs(func(e *github.PushEvent) Event { return Push{e} }),
	TypeRelease:                  decodeAs(func(e *github.ReleaseEvent) Event { return Release{e} }),
	TypeRepository:               decodeAs(func(e *github.RepositoryEvent) Event { return Repository{e} }),
	TypeTeam:                     decodeAs(func(e *github.TeamEvent) Event { return Team{e} }),
	TypeTeamAdd:                  decodeAs(func(e *github.TeamAddEvent) Event { return TeamAdd{e} }),
	TypeWatch:                    decodeAs(func(e *github.WatchEvent) Event { return Watch{e} }),
}

// Classify decodes body as the event named by name. It returns an
// *UnsupportedTypeError for unknown names and a *DecodeError for bodies that
// do not match the schema of a known type.
func Classify(name string, body []byte) (Event, error) {
	t, err := ParseType(name)
	if err != nil {
		return nil, err
	}

	e, err := decoders[t](body)
	if err != nil {
		return nil, &DecodeError{Type: t, Err: errors.Wrap(err, "invalid json payload")}
	}
	return e, nil
}
