package resolver

import (
	"context"
	"strings"

	"github.com/loom-social/loom/internal/platform"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// Per-source cap when searching all sources at once.
	allSourceCap = 5
	// Cap for a single entity-scoped search.
	entityCap = 10
	// Number of pages listed when the query is empty.
	pageDefaultCap = 10
)

// Directory is the read side of the participant backend.
type Directory interface {
	SearchUsers(ctx context.Context, query string, limit int) ([]platform.UserRecord, error)
	SearchEntities(ctx context.Context, businessType, query string, limit int) ([]platform.EntityRecord, error)
	ListPages(ctx context.Context) ([]platform.PageRecord, error)
}

// Messenger is the write side: the single conversation-creation call.
type Messenger interface {
	CreateConversation(ctx context.Context, req *platform.CreateConversationRequest) (*platform.Conversation, error)
}

// Resolver aggregates participant search results across heterogeneous
// backend collections and builds conversation-creation requests.
type Resolver struct {
	dir    Directory
	msgr   Messenger
	logger *zap.Logger
}

// New creates a resolver.
func New(dir Directory, msgr Messenger, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{dir: dir, msgr: msgr, logger: logger}
}

// Search produces an ordered, de-duplicated participant list for the query
// and filter. It never returns an error: a failing source degrades to an
// empty sub-result, and the overall list simply omits those entries.
func (r *Resolver) Search(ctx context.Context, query string, filter Filter) []Participant {
	switch filter {
	case FilterAll:
		return r.searchAll(ctx, query)
	case FilterUser:
		// No popular-users listing exists, so an empty query yields nothing.
		if strings.TrimSpace(query) == "" {
			return nil
		}
		return r.searchUsers(ctx, query, entityCap)
	case FilterPage:
		return r.searchPages(ctx, query)
	case FilterBrand, FilterStore, FilterSupplier, FilterNonProfit:
		return r.searchEntities(ctx, Kind(filter), query, entityCap)
	default:
		r.logger.Warn("unknown participant filter", zap.String("filter", string(filter)))
		return nil
	}
}

// searchAll fans out to users, brands and stores concurrently and joins
// all-settled. Concatenation order is fixed {users, brands, stores}
// regardless of which sub-query resolves first.
func (r *Resolver) searchAll(ctx context.Context, query string) []Participant {
	var users, brands, stores []Participant

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users = r.searchUsers(ctx, query, allSourceCap)
		return nil
	})
	g.Go(func() error {
		brands = r.searchEntities(ctx, KindBrand, query, allSourceCap)
		return nil
	})
	g.Go(func() error {
		stores = r.searchEntities(ctx, KindStore, query, allSourceCap)
		return nil
	})
	_ = g.Wait()

	out := make([]Participant, 0, len(users)+len(brands)+len(stores))
	out = append(out, users...)
	out = append(out, brands...)
	out = append(out, stores...)
	return dedupe(out)
}

func (r *Resolver) searchUsers(ctx context.Context, query string, limit int) []Participant {
	records, err := r.dir.SearchUsers(ctx, query, limit)
	if err != nil {
		r.logger.Warn("user search degraded", zap.Error(err))
		return nil
	}
	out := make([]Participant, 0, len(records))
	for _, u := range records {
		name := u.DisplayName
		if name == "" {
			name = u.Username
		}
		out = append(out, Participant{
			ID:        u.ID,
			Name:      name,
			Kind:      KindUser,
			Subtitle:  "@" + u.Username,
			AvatarURL: u.AvatarURL,
		})
	}
	return out
}

func (r *Resolver) searchEntities(ctx context.Context, kind Kind, query string, limit int) []Participant {
	records, err := r.dir.SearchEntities(ctx, string(kind), query, limit)
	if err != nil {
		r.logger.Warn("entity search degraded", zap.String("kind", string(kind)), zap.Error(err))
		return nil
	}
	out := make([]Participant, 0, len(records))
	for _, e := range records {
		out = append(out, Participant{
			ID:        e.ID,
			Name:      e.Name,
			Kind:      kind,
			Subtitle:  kind.Label(),
			AvatarURL: e.Logo,
			Slug:      e.Slug,
		})
	}
	return out
}

// searchPages fetches the full page list and filters client-side by
// case-insensitive substring match.
func (r *Resolver) searchPages(ctx context.Context, query string) []Participant {
	records, err := r.dir.ListPages(ctx)
	if err != nil {
		r.logger.Warn("page listing degraded", zap.Error(err))
		return nil
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]Participant, 0, len(records))
	for _, p := range records {
		if needle == "" {
			if len(out) >= pageDefaultCap {
				break
			}
		} else if !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, Participant{
			ID:        p.ID,
			Name:      p.Name,
			Kind:      KindPage,
			Subtitle:  KindPage.Label(),
			AvatarURL: p.Logo,
			Slug:      p.Slug,
		})
	}
	return out
}

// dedupe removes later occurrences of an id, keeping first-seen order.
func dedupe(in []Participant) []Participant {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, p := range in {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
