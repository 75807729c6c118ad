package event

import (
	"github.com/google/go-github/v57/github"
)

// Event is one decoded webhook notification. The set of implementations is
// closed: every variant lives in this package and wraps the matching go-github
// payload type, so its fields are reachable through the embedded pointer.
type Event interface {
	Type() Type
	// GetSender is the user that triggered the event, nil when the payload
	// carried no sender.
	GetSender() *github.User

	event()
}

type CommitComment struct{ *github.CommitCommentEvent }

type Create struct{ *github.CreateEvent }

type Delete struct{ *github.DeleteEvent }

type Deployment struct{ *github.DeploymentEvent }

type DeploymentStatus struct{ *github.DeploymentStatusEvent }

type Fork struct{ *github.ForkEvent }

// Gollum is a wiki update.
type Gollum struct{ *github.GollumEvent }

type IssueComment struct{ *github.IssueCommentEvent }

type Issues struct{ *github.IssuesEvent }

type Label struct{ *github.LabelEvent }

type Member struct{ *github.MemberEvent }

type Membership struct{ *github.MembershipEvent }

type Milestone struct{ *github.MilestoneEvent }

type Organization struct{ *github.OrganizationEvent }

type OrgBlock struct{ *github.OrgBlockEvent }

type PageBuild struct{ *github.PageBuildEvent }

type Public struct{ *github.PublicEvent }

type PullRequest struct{ *github.PullRequestEvent }

type PullRequestReview struct{ *github.PullRequestReviewEvent }

type PullRequestReviewComment struct {
	*github.PullRequestReviewCommentEvent
}

type Push struct{ *github.PushEvent }

type Release struct{ *github.ReleaseEvent }

type Repository struct{ *github.RepositoryEvent }

type Team struct{ *github.TeamEvent }

type TeamAdd struct{ *github.TeamAddEvent }

type Watch struct{ *github.WatchEvent }

func (CommitComment) Type() Type            { return TypeCommitComment }
func (Create) Type() Type                   { return TypeCreate }
func (Delete) Type() Type                   { return TypeDelete }
func (Deployment) Type() Type               { return TypeDeployment }
func (DeploymentStatus) Type() Type         { return TypeDeploymentStatus }
func (Fork) Type() Type                     { return TypeFork }
func (Gollum) Type() Type                   { return TypeGollum }
func (IssueComment) Type() Type             { return TypeIssueComment }
func (Issues) Type() Type                   { return TypeIssues }
func (Label) Type() Type                    { return TypeLabel }
func (Member) Type() Type                   { return TypeMember }
func (Membership) Type() Type               { return TypeMembership }
func (Milestone) Type() Type                { return TypeMilestone }
func (Organization) Type() Type             { return TypeOrganization }
func (OrgBlock) Type() Type                 { return TypeOrgBlock }
func (PageBuild) Type() Type                { return TypePageBuild }
func (Public) Type() Type                   { return TypePublic }
func (PullRequest) Type() Type              { return TypePullRequest }
func (PullRequestReview) Type() Type        { return TypePullRequestReview }
func (PullRequestReviewComment) Type() Type { return TypePullRequestReviewComment }
func (Push) Type() Type                     { return TypePush }
func (Release) Type() Type                  { return TypeRelease }
func (Repository) Type() Type               { return TypeRepository }
func (Team) Type() Type                     { return TypeTeam }
func (TeamAdd) Type() Type                  { return TypeTeamAdd }
func (Watch) Type() Type                    { return TypeWatch }

func (CommitComment) event()            {}
func (Create) event()                   {}
func (Delete) event()                   {}
func (Deployment) event()               {}
func (DeploymentStatus) event()         {}
func (Fork) event()                     {}
func (Gollum) event()                   {}
func (IssueComment) event()             {}
func (Issues) event()                   {}
func (Label) event()                    {}
func (Member) event()                   {}
func (Membership) event()               {}
func (Milestone) event()                {}
func (Organization) event()             {}
func (OrgBlock) event()                 {}
func (PageBuild) event()                {}
func (Public) event()                   {}
func (PullRequest) event()              {}
func (PullRequestReview) event()        {}
func (PullRequestReviewComment) event() {}
func (Push) event()                     {}
func (Release) event()                  {}
func (Repository) event()               {}
func (Team) event()                     {}
func (TeamAdd) event()                  {}
func (Watch) event()                    {}
