package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/loom-social/loom/internal/platform"
	"go.uber.org/zap"
)

// Validation failures reported before any network call is made.
var (
	ErrNoParticipants      = errors.New("select at least one participant")
	ErrInvalidParticipants = errors.New("group conversations can only include users")
)

const maxGroupNameLen = 100

// BuildRequest derives the conversation-creation request from a selection.
// Three branches: direct (one user, no name), entity (one non-user, no
// name), group (everything else, users only).
func BuildRequest(selection []Participant, groupName string) (*platform.CreateConversationRequest, error) {
	groupName = strings.TrimSpace(groupName)

	if len(selection) == 0 {
		return nil, ErrNoParticipants
	}

	if len(selection) == 1 && groupName == "" {
		p := selection[0]
		switch p.Kind {
		case KindUser:
			return &platform.CreateConversationRequest{RecipientID: p.ID}, nil
		case KindBrand, KindStore, KindSupplier, KindNonProfit, KindPage:
			return &platform.CreateConversationRequest{EntityType: string(p.Kind), EntityID: p.ID}, nil
		default:
			return nil, fmt.Errorf("unknown participant kind %q", p.Kind)
		}
	}

	// Group: every member must be a user. Rejecting beats silently dropping
	// non-user members.
	ids := make([]string, 0, len(selection))
	names := make([]string, 0, len(selection))
	for _, p := range selection {
		if p.Kind != KindUser {
			return nil, ErrInvalidParticipants
		}
		ids = append(ids, p.ID)
		names = append(names, p.Name)
	}

	name := groupName
	if name == "" {
		name = defaultGroupName(names)
	}
	return &platform.CreateConversationRequest{ParticipantIDs: ids, Name: name}, nil
}

// defaultGroupName derives "Group: a, b, c" truncated to 100 chars.
func defaultGroupName(names []string) string {
	name := "Group: " + strings.Join(names, ", ")
	if len(name) > maxGroupNameLen {
		name = name[:maxGroupNameLen]
	}
	return name
}

// Create validates the selection locally and, only if it passes, issues the
// single conversation-creation call. A backend failure carries the server's
// message verbatim.
func (r *Resolver) Create(ctx context.Context, selection []Participant, groupName string) (*platform.Conversation, error) {
	req, err := BuildRequest(selection, groupName)
	if err != nil {
		return nil, err
	}

	conv, err := r.msgr.CreateConversation(ctx, req)
	if err != nil {
		r.logger.Error("conversation creation failed", zap.Error(err))
		return nil, err
	}
	r.logger.Info("conversation created",
		zap.String("id", conv.ID),
		zap.Int("participants", len(selection)))
	return conv, nil
}
