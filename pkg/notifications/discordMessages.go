package notifications

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/localization"
	"github.com/gimlet-io/hookcast/pkg/message"
	"github.com/google/go-github/v57/github"
)

const (
	githubIconURL         = "https://github.com/fluidicon.png"
	discordDescriptionMax = 2048
	discordTitleMax       = 256
	discordFieldsMax      = 25
)

type discordMessages struct {
	catalog *localization.Catalog
}

// discordBuilders has no builder for wiki and star events, those are not
// announced on Discord.
func discordBuilders(catalog *localization.Catalog) *Registry[*discordMessage] {
	d := discordMessages{catalog: catalog}
	r := NewRegistry[*discordMessage]()

	register(r, d.commitComment)
	register(r, d.create)
	register(r, d.delete)
	register(r, d.deployment)
	register(r, d.deploymentStatus)
	register(r, d.fork)
	register(r, d.issueComment)
	register(r, d.issues)
	register(r, d.label)
	register(r, d.member)
	register(r, d.membership)
	register(r, d.milestone)
	register(r, d.organization)
	register(r, d.orgBlock)
	register(r, d.pageBuild)
	register(r, d.public)
	register(r, d.pullRequest)
	register(r, d.pullRequestReview)
	register(r, d.pullRequestReviewComment)
	register(r, d.push)
	register(r, d.release)
	register(r, d.repository)
	register(r, d.team)
	register(r, d.teamAdd)

	return r
}

func (d discordMessages) message(key string, args ...interface{}) *discordMessage {
	return &discordMessage{
		Text:  message.Text(d.catalog.Message(key, args...)),
		Embed: &discordgo.MessageEmbed{Type: discordgo.EmbedTypeRich},
	}
}

func (d discordMessages) commitComment(e event.CommitComment) *discordMessage {
	msg := d.message("github.commit_comment."+e.GetAction(), e.GetRepo().GetFullName())

	c := e.GetComment()
	if c.GetPath() != "" {
		msg.Embed.Title = d.catalog.Message("github.commit_comment.title.path", c.GetPath(), shortSHA(c.GetCommitID()))
	} else {
		msg.Embed.Title = d.catalog.Message("github.commit_comment.title", shortSHA(c.GetCommitID()))
	}
	msg.Embed.URL = c.GetHTMLURL()
	msg.Embed.Description = truncate(c.GetBody(), discordDescriptionMax)
	return msg
}

func (d discordMessages) create(e event.Create) *discordMessage {
	msg := d.message("github.create."+e.GetRefType(), e.GetRepo().GetFullName())
	msg.Embed.Title = e.GetRef()
	return msg
}

func (d discordMessages) delete(e event.Delete) *discordMessage {
	msg := d.message("github.delete."+e.GetRefType(), e.GetRepo().GetFullName())
	msg.Embed.Title = e.GetRef()
	return msg
}

func (d discordMessages) deployment(e event.Deployment) *discordMessage {
	msg := d.message("github.deployment", e.GetRepo().GetFullName())
	msg.Embed.Title = d.catalog.Message("github.deployment.title", e.GetDeployment().GetEnvironment())
	msg.Embed.Description = truncate(e.GetDeployment().GetDescription(), discordDescriptionMax)
	return msg
}

func (d discordMessages) deploymentStatus(e event.DeploymentStatus) *discordMessage {
	msg := d.message("github.deployment_status", e.GetRepo().GetFullName())
	msg.Embed.Title = d.catalog.Message("github.deployment.title", e.GetDeployment().GetEnvironment())
	msg.Embed.URL = e.GetDeploymentStatus().GetTargetURL()
	msg.Embed.Description = truncate(e.GetDeployment().GetDescription(), discordDescriptionMax)
	addField(msg.Embed, d.catalog.Message("github.deployment_status.state"), e.GetDeploymentStatus().GetState(), false)
	return msg
}

func (d discordMessages) fork(e event.Fork) *discordMessage {
	msg := d.message("github.fork", e.GetRepo().GetFullName())
	msg.Embed.Title = e.GetForkee().GetFullName()
	msg.Embed.URL = e.GetForkee().GetHTMLURL()
	msg.Embed.Description = truncate(e.GetForkee().GetDescription(), discordDescriptionMax)
	return msg
}

func (d discordMessages) issueComment(e event.IssueComment) *discordMessage {
	msg := d.message("github.issue_comment."+e.GetAction(), e.GetRepo().GetFullName())
	msg.Embed.Title = d.catalog.Message("github.issues.title", e.GetIssue().GetNumber(), e.GetIssue().GetTitle())
	msg.Embed.URL = e.GetComment().GetHTMLURL()
	msg.Embed.Description = truncate(e.GetComment().GetBody(), discordDescriptionMax)
	return msg
}

func (d discordMessages) issues(e event.Issues) *discordMessage {
	msg := d.message("github.issues."+e.GetAction(), e.GetRepo().GetFullName())

	issue := e.GetIssue()
	msg.Embed.Title = d.catalog.Message("github.issues.title", issue.GetNumber(), issue.GetTitle())
	msg.Embed.URL = issue.GetHTMLURL()
	msg.Embed.Description = truncate(issue.GetBody(), discordDescriptionMax)

	if m := issue.GetMilestone(); m != nil {
		addField(msg.Embed, d.catalog.Message("github.issues.milestone"), markdownLink(m.GetTitle(), m.GetHTMLURL()), false)
	}
	addField(msg.Embed, d.catalog.Message("github.issues.reporter"), userLink(issue.GetUser()), true)
	if a := issue.GetAssignee(); a != nil {
		addField(msg.Embed, d.catalog.Message("github.issues.assignee"), userLink(a), true)
	}

	if len(issue.Labels) != 0 {
		names := make([]string, 0, len(issue.Labels))
		for _, l := range issue.Labels {
			names = append(names, l.GetName())
		}
		msg.Embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    d.catalog.Message("github.issues.labels", strings.Join(names, ", ")),
			IconURL: githubIconURL,
		}
	}
	return msg
}

func (d discordMessages) label(e event.Label) *discordMessage {
	msg := d.message("github.label."+e.GetAction(), e.GetRepo().GetFullName())
	msg.Embed.Title = e.GetLabel().GetName()
	if color, ok := labelColor(e.GetLabel().GetColor()); ok {
		msg.Embed.Color = color
	}
	return msg
}

func (d discordMessages) member(e event.Member) *discordMessage {
	msg := d.message("github.member."+e.GetAction(), e.GetRepo().GetFullName())
	userEmbed(msg.Embed, e.GetMember())
	return msg
}

func (d discordMessages) membership(e event.Membership) *discordMessage {
	msg := d.message("github.membership."+e.GetAction(), e.GetOrg().GetLogin())
	userEmbed(msg.Embed, e.GetMember())
	addField(msg.Embed, d.catalog.Message("github.membership.team"), e.GetTeam().GetName(), false)
	return msg
}

func (d discordMessages) milestone(e event.Milestone) *discordMessage {
	msg := d.message("github.milestone."+e.GetAction(), e.GetRepo().GetFullName())

	m := e.GetMilestone()
	msg.Embed.Title = m.GetTitle()
	msg.Embed.URL = m.GetHTMLURL()
	msg.Embed.Description = truncate(m.GetDescription(), discordDescriptionMax)

	if e.GetAction() == "closed" || e.GetAction() == "edited" {
		addField(msg.Embed, d.catalog.Message("github.milestone.stats.open"), strconv.Itoa(m.GetOpenIssues()), true)
		addField(msg.Embed, d.catalog.Message("github.milestone.stats.closed"), strconv.Itoa(m.GetClosedIssues()), true)
	}
	return msg
}

func (d discordMessages) organization(e event.Organization) *discordMessage {
	msg := d.message("github.organization."+e.GetAction(), e.GetOrganization().GetLogin())

	switch {
	case e.GetAction() == "member_invited":
		invitation := e.GetInvitation()
		if invitation.GetEmail() != "" {
			msg.Embed.Title = MaskEmail(invitation.GetEmail())
		} else {
			msg.Embed.Title = invitation.GetLogin()
		}
		addField(msg.Embed, d.catalog.Message("github.organization.role"), invitation.GetRole(), false)
	case e.GetMembership() != nil:
		userEmbed(msg.Embed, e.GetMembership().GetUser())
		addField(msg.Embed, d.catalog.Message("github.organization.role"), e.GetMembership().GetRole(), false)
	default:
		msg.Embed.Title = e.GetOrganization().GetLogin()
	}
	return msg
}

func (d discordMessages) orgBlock(e event.OrgBlock) *discordMessage {
	msg := d.message("github.org_block."+e.GetAction(), e.GetOrganization().GetLogin())
	userEmbed(msg.Embed, e.GetBlockedUser())
	return msg
}

func (d discordMessages) pageBuild(e event.PageBuild) *discordMessage {
	build := e.GetBuild()
	msg := d.message("github.page_build."+build.GetStatus(), e.GetRepo().GetFullName())
	msg.Embed.Title = e.GetRepo().GetFullName()
	msg.Embed.URL = e.GetRepo().GetHTMLURL()
	msg.Embed.Description = truncate(build.GetError().GetMessage(), discordDescriptionMax)

	addField(msg.Embed, d.catalog.Message("github.page_build.commit"), build.GetCommit(), false)
	if build.GetDuration() > 0 {
		addField(msg.Embed, d.catalog.Message("github.page_build.duration"), formatDuration(build.GetDuration()), false)
	}
	return msg
}

func (d discordMessages) public(e event.Public) *discordMessage {
	msg := d.message("github.public", e.GetRepo().GetFullName())
	msg.Embed.Title = e.GetRepo().GetFullName()
	msg.Embed.URL = e.GetRepo().GetHTMLURL()
	msg.Embed.Description = truncate(e.GetRepo().GetDescription(), discordDescriptionMax)
	return msg
}

func (d discordMessages) pullRequest(e event.PullRequest) *discordMessage {
	pr := e.GetPullRequest()
	msg := d.message("github.pull_request."+pullRequestAction(e.GetAction(), pr), e.GetRepo().GetFullName())
	msg.Embed.Title = d.catalog.Message("github.pull_request.title", pr.GetNumber(), pr.GetTitle())
	msg.Embed.URL = pr.GetHTMLURL()
	msg.Embed.Description = truncate(pr.GetBody(), discordDescriptionMax)
	d.pullRequestFields(msg.Embed, pr)
	return msg
}

func (d discordMessages) pullRequestReview(e event.PullRequestReview) *discordMessage {
	pr := e.GetPullRequest()
	msg := d.message("github.pull_request_review."+e.GetAction(), e.GetRepo().GetFullName())
	msg.Embed.Title = d.catalog.Message("github.pull_request.title", pr.GetNumber(), pr.GetTitle())
	msg.Embed.URL = e.GetReview().GetHTMLURL()
	msg.Embed.Description = truncate(e.GetReview().GetBody(), discordDescriptionMax)
	addField(msg.Embed, d.catalog.Message("github.pull_request_review.state"), strings.ToLower(e.GetReview().GetState()), false)
	return msg
}

func (d discordMessages) pullRequestReviewComment(e event.PullRequestReviewComment) *discordMessage {
	pr := e.GetPullRequest()
	msg := d.message("github.pull_request_review_comment."+e.GetAction(), e.GetRepo().GetFullName())
	msg.Embed.Title = d.catalog.Message("github.pull_request.title", pr.GetNumber(), pr.GetTitle())
	msg.Embed.URL = e.GetComment().GetHTMLURL()
	msg.Embed.Description = truncate(e.GetComment().GetBody(), discordDescriptionMax)
	d.pullRequestFields(msg.Embed, pr)
	return msg
}

func (d discordMessages) pullRequestFields(embed *discordgo.MessageEmbed, pr *github.PullRequest) {
	if mergedAt := pr.GetMergedAt(); !mergedAt.IsZero() {
		addField(embed, d.catalog.Message("github.pull_request.merged_at"), mergedAt.UTC().Format("2006-01-02 15:04 MST"), false)
	}
	if m := pr.GetMilestone(); m != nil {
		addField(embed, d.catalog.Message("github.issues.milestone"), markdownLink(m.GetTitle(), m.GetHTMLURL()), false)
	}
	addField(embed, d.catalog.Message("github.pull_request.author"), userLink(pr.GetUser()), true)
	if a := pr.GetAssignee(); a != nil {
		addField(embed, d.catalog.Message("github.issues.assignee"), userLink(a), true)
	}
}

func (d discordMessages) push(e event.Push) *discordMessage {
	msg := d.message("github.push", e.GetRepo().GetFullName())
	msg.Embed.Title = branch(e.GetRef())
	msg.Embed.URL = e.GetCompare()

	switch len(e.Commits) {
	case 0:
	case 1:
		msg.Embed.Description = truncate(e.Commits[0].GetMessage(), discordDescriptionMax)
	default:
		var b strings.Builder
		for _, c := range e.Commits {
			b.WriteString(" - " + firstLine(c.GetMessage()) + "\n")
		}
		msg.Embed.Description = truncate(b.String(), discordDescriptionMax)
	}

	added, modified, removed := fileCounts(e.Commits)
	addField(msg.Embed, d.catalog.Message("github.push.added"), strconv.Itoa(added), true)
	addField(msg.Embed, d.catalog.Message("github.push.modified"), strconv.Itoa(modified), true)
	addField(msg.Embed, d.catalog.Message("github.push.removed"), strconv.Itoa(removed), true)
	return msg
}

func (d discordMessages) release(e event.Release) *discordMessage {
	msg := d.message("github.release."+e.GetAction(), e.GetRepo().GetFullName())

	release := e.GetRelease()
	if release.GetName() != "" {
		msg.Embed.Title = d.catalog.Message("github.release.title.named", release.GetTagName(), release.GetName())
	} else {
		msg.Embed.Title = d.catalog.Message("github.release.title", release.GetTagName())
	}
	msg.Embed.URL = release.GetHTMLURL()

	for _, a := range release.Assets {
		addField(msg.Embed, a.GetName(), d.catalog.Message("github.release.download", a.GetBrowserDownloadURL()), true)
	}
	if release.GetTarballURL() != "" {
		addField(msg.Embed, d.catalog.Message("github.release.tarball"), d.catalog.Message("github.release.download", release.GetTarballURL()), true)
	}
	if release.GetZipballURL() != "" {
		addField(msg.Embed, d.catalog.Message("github.release.zipball"), d.catalog.Message("github.release.download", release.GetZipballURL()), true)
	}
	return msg
}

func (d discordMessages) repository(e event.Repository) *discordMessage {
	repo := e.GetRepo()
	msg := d.message("github.repository."+e.GetAction(), repo.GetFullName())
	msg.Embed.Title = repo.GetFullName()
	msg.Embed.URL = repo.GetHTMLURL()
	msg.Embed.Description = truncate(repo.GetDescription(), discordDescriptionMax)
	addField(msg.Embed, d.catalog.Message("github.repository.git_url"), repo.GetGitURL(), false)
	addField(msg.Embed, d.catalog.Message("github.repository.clone_url"), repo.GetCloneURL(), false)
	return msg
}

func (d discordMessages) team(e event.Team) *discordMessage {
	scope := e.GetOrg().GetLogin()
	if e.GetRepo() != nil {
		scope = e.GetRepo().GetFullName()
	}

	msg := d.message("github.team."+e.GetAction(), scope)
	msg.Embed.Title = e.GetTeam().GetName()
	addField(msg.Embed, d.catalog.Message("github.team.permission"), e.GetTeam().GetPermission(), true)
	if repo := e.GetRepo(); repo != nil {
		addField(msg.Embed, d.catalog.Message("github.team.repository"), markdownLink(repo.GetFullName(), repo.GetHTMLURL()), true)
	}
	return msg
}

func (d discordMessages) teamAdd(e event.TeamAdd) *discordMessage {
	repo := e.GetRepo()
	msg := d.message("github.team_add", repo.GetFullName())
	msg.Embed.Title = e.GetTeam().GetName()
	addField(msg.Embed, d.catalog.Message("github.team.permission"), e.GetTeam().GetPermission(), true)
	addField(msg.Embed, d.catalog.Message("github.team.repository"), markdownLink(repo.GetFullName(), repo.GetHTMLURL()), true)
	return msg
}

// addField skips empty values, Discord rejects embeds containing them.
// addField drops fields past the embed limit, Discord rejects the whole
// message otherwise.
func addField(embed *discordgo.MessageEmbed, name string, value string, inline bool) {
	if value == "" || len(embed.Fields) >= discordFieldsMax {
		return
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
}

func userEmbed(embed *discordgo.MessageEmbed, user *github.User) {
	embed.Title = user.GetLogin()
	embed.URL = user.GetHTMLURL()
	if user.GetAvatarURL() != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: user.GetAvatarURL()}
	}
}

func markdownLink(text string, url string) string {
	if url == "" {
		return text
	}
	return fmt.Sprintf("[%s](%s)", text, url)
}

func userLink(user *github.User) string {
	return markdownLink(user.GetLogin(), user.GetHTMLURL())
}

func formatDuration(millis int) string {
	seconds := millis / 1000
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
