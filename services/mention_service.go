package services

import (
	"context"
	"fmt"
	"regexp"

	"scribehub/models"
	"scribehub/utils"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// ExtractMentions scans document content for @username tokens and
// returns the deduplicated set of candidate names, in first-seen order.
// It does not check that the names resolve to real users.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// userDirectory resolves a display name to a user. A nil user with a
// nil error means no match; callers skip unresolved names silently.
type userDirectory interface {
	FindByName(ctx context.Context, name string) (*models.User, error)
}

// mentionNotifier records a mention notification for a user, at most
// once per (user, document) pair.
type mentionNotifier interface {
	NotifyMention(ctx context.Context, user *models.User, doc *models.Document) error
}

// MentionPipeline links mentioned users to a document as view
// collaborators and notifies them. Extraction itself stays pure; the
// pipeline owns the resolve/link/notify sequence.
type MentionPipeline struct {
	directory userDirectory
	notifier  mentionNotifier
}

func NewMentionPipeline(directory userDirectory, notifier mentionNotifier) *MentionPipeline {
	return &MentionPipeline{
		directory: directory,
		notifier:  notifier,
	}
}

// Run processes every mention in the document's current content.
// Collaborator additions mutate doc in memory; the caller persists the
// document afterwards. Each mention is handled independently: lookup
// or notification failures are logged and the remaining mentions still
// run, because the surrounding create/update has already committed.
// Mentions of the author and names that resolve to nobody are skipped.
func (p *MentionPipeline) Run(ctx context.Context, doc *models.Document) {
	for _, name := range ExtractMentions(doc.Content) {
		user, err := p.directory.FindByName(ctx, name)
		if err != nil {
			utils.LogError(fmt.Sprintf("mention lookup failed for @%s in document %s", name, doc.ID.Hex()), err)
			continue
		}
		if user == nil || user.ID == doc.Author {
			continue
		}

		AddCollaboratorIfAbsent(doc, user.ID, models.PermissionView)

		if err := p.notifier.NotifyMention(ctx, user, doc); err != nil {
			utils.LogError(fmt.Sprintf("mention notification failed for @%s in document %s", name, doc.ID.Hex()), err)
		}
	}
}
