package notifications

import (
	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/localization"
	"github.com/gimlet-io/hookcast/pkg/message"
)

type ircMessages struct {
	catalog *localization.Catalog
}

func ircBuilders(catalog *localization.Catalog) *Registry[*message.Message] {
	m := ircMessages{catalog: catalog}
	r := NewRegistry[*message.Message]()

	register(r, m.commitComment)
	register(r, m.create)
	register(r, m.delete)
	register(r, m.deployment)
	register(r, m.deploymentStatus)
	register(r, m.fork)
	register(r, m.gollum)
	register(r, m.issueComment)
	register(r, m.issues)
	register(r, m.label)
	register(r, m.member)
	register(r, m.membership)
	register(r, m.milestone)
	register(r, m.organization)
	register(r, m.orgBlock)
	register(r, m.pageBuild)
	register(r, m.public)
	register(r, m.pullRequest)
	register(r, m.pullRequestReview)
	register(r, m.pullRequestReviewComment)
	register(r, m.push)
	register(r, m.release)
	register(r, m.repository)
	register(r, m.team)
	register(r, m.teamAdd)
	register(r, m.watch)

	return r
}

// line formats key. Control codes are stripped from the arguments, they come
// from user input.
func (m ircMessages) line(key string, args ...interface{}) *message.Message {
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			args[i] = StripCodes(firstLine(s))
		}
	}
	return message.Text(m.catalog.Message(key, args...))
}

func (m ircMessages) commitComment(e event.CommitComment) *message.Message {
	return m.line("github.commit_comment."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		shortSHA(e.GetComment().GetCommitID()),
		e.GetComment().GetHTMLURL(),
	)
}

func (m ircMessages) create(e event.Create) *message.Message {
	return m.line("github.create",
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetRefType(),
		e.GetRef(),
	)
}

func (m ircMessages) delete(e event.Delete) *message.Message {
	return m.line("github.delete",
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetRefType(),
		e.GetRef(),
	)
}

func (m ircMessages) deployment(e event.Deployment) *message.Message {
	return m.line("github.deployment",
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetDeployment().GetEnvironment(),
	)
}

func (m ircMessages) deploymentStatus(e event.DeploymentStatus) *message.Message {
	key := "github.deployment_status"
	if e.GetDeploymentStatus().GetTargetURL() != "" {
		key += ".target"
	}
	return m.line(key,
		e.GetRepo().GetFullName(),
		e.GetDeployment().GetEnvironment(),
		e.GetDeploymentStatus().GetState(),
		e.GetDeploymentStatus().GetTargetURL(),
	)
}

func (m ircMessages) fork(e event.Fork) *message.Message {
	return m.line("github.fork",
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetForkee().GetFullName(),
		e.GetForkee().GetHTMLURL(),
	)
}

func (m ircMessages) gollum(e event.Gollum) *message.Message {
	return m.line("github.gollum",
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		len(e.Pages),
	)
}

func (m ircMessages) issueComment(e event.IssueComment) *message.Message {
	return m.line("github.issue_comment."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetIssue().GetNumber(),
		e.GetIssue().GetTitle(),
		e.GetComment().GetHTMLURL(),
	)
}

func (m ircMessages) issues(e event.Issues) *message.Message {
	return m.line("github.issues."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetIssue().GetNumber(),
		e.GetIssue().GetTitle(),
		e.GetIssue().GetHTMLURL(),
	)
}

func (m ircMessages) label(e event.Label) *message.Message {
	return m.line("github.label."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetLabel().GetName(),
	)
}

func (m ircMessages) member(e event.Member) *message.Message {
	return m.line("github.member."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetMember().GetLogin(),
	)
}

func (m ircMessages) membership(e event.Membership) *message.Message {
	return m.line("github.membership."+e.GetAction(),
		e.GetOrg().GetLogin(),
		e.GetSender().GetLogin(),
		e.GetMember().GetLogin(),
		e.GetTeam().GetName(),
	)
}

func (m ircMessages) milestone(e event.Milestone) *message.Message {
	return m.line("github.milestone."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetMilestone().GetNumber(),
		e.GetMilestone().GetTitle(),
		e.GetMilestone().GetHTMLURL(),
	)
}

func (m ircMessages) organization(e event.Organization) *message.Message {
	key := "github.organization." + e.GetAction()
	org := e.GetOrganization().GetLogin()
	sender := e.GetSender().GetLogin()

	if e.GetAction() == "member_invited" {
		invitation := e.GetInvitation()
		invitee := invitation.GetLogin()
		if invitation.GetEmail() != "" {
			invitee = MaskEmail(invitation.GetEmail())
		}
		return m.line(key, org, sender, invitee, invitation.GetRole())
	}

	return m.line(key, org, sender,
		e.GetMembership().GetUser().GetLogin(),
		e.GetMembership().GetRole(),
	)
}

func (m ircMessages) orgBlock(e event.OrgBlock) *message.Message {
	return m.line("github.org_block."+e.GetAction(),
		e.GetOrganization().GetLogin(),
		e.GetSender().GetLogin(),
		e.GetBlockedUser().GetLogin(),
	)
}

func (m ircMessages) pageBuild(e event.PageBuild) *message.Message {
	return m.line("github.page_build."+e.GetBuild().GetStatus(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		shortSHA(e.GetBuild().GetCommit()),
	)
}

func (m ircMessages) public(e event.Public) *message.Message {
	return m.line("github.public",
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
	)
}

func (m ircMessages) pullRequest(e event.PullRequest) *message.Message {
	pr := e.GetPullRequest()
	return m.line("github.pull_request."+pullRequestAction(e.GetAction(), pr),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		pr.GetNumber(),
		pr.GetTitle(),
		pr.GetHTMLURL(),
	)
}

func (m ircMessages) pullRequestReview(e event.PullRequestReview) *message.Message {
	return m.line("github.pull_request_review."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetPullRequest().GetNumber(),
		e.GetPullRequest().GetTitle(),
		e.GetReview().GetHTMLURL(),
	)
}

func (m ircMessages) pullRequestReviewComment(e event.PullRequestReviewComment) *message.Message {
	return m.line("github.pull_request_review_comment."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetPullRequest().GetNumber(),
		e.GetPullRequest().GetTitle(),
		e.GetComment().GetHTMLURL(),
	)
}

func (m ircMessages) push(e event.Push) *message.Message {
	added, modified, removed := fileCounts(e.Commits)
	return m.line("github.push",
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		branch(e.GetRef()),
		len(e.Commits),
		added,
		modified,
		removed,
		e.GetCompare(),
	)
}

func (m ircMessages) release(e event.Release) *message.Message {
	release := e.GetRelease()
	title := release.GetTagName()
	if release.GetName() != "" {
		title += " - " + release.GetName()
	}
	return m.line("github.release."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		title,
		release.GetHTMLURL(),
	)
}

func (m ircMessages) repository(e event.Repository) *message.Message {
	return m.line("github.repository."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetRepo().GetHTMLURL(),
	)
}

func (m ircMessages) team(e event.Team) *message.Message {
	return m.line("github.team."+e.GetAction(),
		e.GetOrg().GetLogin(),
		e.GetSender().GetLogin(),
		e.GetTeam().GetName(),
		e.GetRepo().GetFullName(),
	)
}

func (m ircMessages) teamAdd(e event.TeamAdd) *message.Message {
	return m.line("github.team_add",
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
		e.GetTeam().GetName(),
	)
}

func (m ircMessages) watch(e event.Watch) *message.Message {
	return m.line("github.watch."+e.GetAction(),
		e.GetRepo().GetFullName(),
		e.GetSender().GetLogin(),
	)
}
