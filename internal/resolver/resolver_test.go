package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/loom-social/loom/internal/platform"
)

// fakeBackend implements Directory and Messenger with canned results and
// per-source failure switches.
type fakeBackend struct {
	users    []platform.UserRecord
	entities map[string][]platform.EntityRecord
	pages    []platform.PageRecord

	failUsers    bool
	failEntities map[string]bool
	failPages    bool

	userCalls   int
	entityCalls int
	pageCalls   int
	convCalls   int
	lastReq     *platform.CreateConversationRequest
}

func (f *fakeBackend) SearchUsers(_ context.Context, _ string, limit int) ([]platform.UserRecord, error) {
	f.userCalls++
	if f.failUsers {
		return nil, errors.New("user search unavailable")
	}
	if len(f.users) > limit {
		return f.users[:limit], nil
	}
	return f.users, nil
}

func (f *fakeBackend) SearchEntities(_ context.Context, businessType, _ string, limit int) ([]platform.EntityRecord, error) {
	f.entityCalls++
	if f.failEntities[businessType] {
		return nil, errors.New(businessType + " search unavailable")
	}
	records := f.entities[businessType]
	if len(records) > limit {
		return records[:limit], nil
	}
	return records, nil
}

func (f *fakeBackend) ListPages(_ context.Context) ([]platform.PageRecord, error) {
	f.pageCalls++
	if f.failPages {
		return nil, errors.New("pages unavailable")
	}
	return f.pages, nil
}

func (f *fakeBackend) CreateConversation(_ context.Context, req *platform.CreateConversationRequest) (*platform.Conversation, error) {
	f.convCalls++
	f.lastReq = req
	return &platform.Conversation{ID: "conv-1"}, nil
}

func TestSearchAllConcatOrder(t *testing.T) {
	f := &fakeBackend{
		users: []platform.UserRecord{{ID: "u1", Username: "ana"}},
		entities: map[string][]platform.EntityRecord{
			"brand": {{ID: "b1", Name: "Ganni"}},
			"store": {{ID: "s1", Name: "Velvet Rack"}},
		},
	}
	r := New(f, f, nil)

	got := r.Search(context.Background(), "a", FilterAll)
	want := []string{"u1", "b1", "s1"}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("result[%d].ID = %q, want %q (fixed users,brands,stores order)", i, got[i].ID, id)
		}
	}
}

func TestSearchAllDegradesFailedSource(t *testing.T) {
	f := &fakeBackend{
		users:     []platform.UserRecord{{ID: "u1", Username: "ana"}},
		failUsers: true,
		entities: map[string][]platform.EntityRecord{
			"brand": {{ID: "b1", Name: "Ganni"}},
			"store": {{ID: "s1", Name: "Velvet Rack"}},
		},
	}
	r := New(f, f, nil)

	got := r.Search(context.Background(), "a", FilterAll)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 (users degraded to empty)", len(got))
	}
	if got[0].ID != "b1" || got[1].ID != "s1" {
		t.Errorf("results = %v, want brands then stores", got)
	}
}

func TestSearchAllEverySourceFailing(t *testing.T) {
	f := &fakeBackend{
		failUsers:    true,
		failEntities: map[string]bool{"brand": true, "store": true},
	}
	r := New(f, f, nil)

	if got := r.Search(context.Background(), "a", FilterAll); len(got) != 0 {
		t.Errorf("got %v, want empty list, never an error", got)
	}
}

func TestSearchAllDedupesByID(t *testing.T) {
	f := &fakeBackend{
		users: []platform.UserRecord{{ID: "x", Username: "ana"}},
		entities: map[string][]platform.EntityRecord{
			"brand": {{ID: "x", Name: "Ana The Label"}},
		},
	}
	r := New(f, f, nil)

	got := r.Search(context.Background(), "ana", FilterAll)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1 after dedupe", len(got))
	}
	if got[0].Kind != KindUser {
		t.Errorf("kept kind = %q, want first-seen (user)", got[0].Kind)
	}
}

func TestSearchUserEmptyQueryReturnsNothing(t *testing.T) {
	f := &fakeBackend{users: []platform.UserRecord{{ID: "u1"}}}
	r := New(f, f, nil)

	if got := r.Search(context.Background(), "  ", FilterUser); len(got) != 0 {
		t.Errorf("got %v, want empty (no popular-users listing)", got)
	}
	if f.userCalls != 0 {
		t.Errorf("userCalls = %d, want 0", f.userCalls)
	}
}

func TestSearchPagesFiltersClientSide(t *testing.T) {
	f := &fakeBackend{pages: []platform.PageRecord{
		{ID: "p1", Name: "Sustainability"},
		{ID: "p2", Name: "Street Style"},
		{ID: "p3", Name: "Vintage Finds"},
	}}
	r := New(f, f, nil)

	got := r.Search(context.Background(), "sTyLe", FilterPage)
	if len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("got %v, want case-insensitive substring match on p2", got)
	}
}

func TestSearchPagesEmptyQueryCapped(t *testing.T) {
	var pages []platform.PageRecord
	for i := 0; i < 25; i++ {
		pages = append(pages, platform.PageRecord{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Page %d", i)})
	}
	f := &fakeBackend{pages: pages}
	r := New(f, f, nil)

	got := r.Search(context.Background(), "", FilterPage)
	if len(got) != pageDefaultCap {
		t.Errorf("got %d pages, want %d", len(got), pageDefaultCap)
	}
}

func TestSearchEntitySubtitleLabels(t *testing.T) {
	f := &fakeBackend{entities: map[string][]platform.EntityRecord{
		"non_profit": {{ID: "n1", Name: "Dress For Good"}},
		"supplier":   {{ID: "sp1", Name: "Mill & Thread"}},
	}}
	r := New(f, f, nil)

	got := r.Search(context.Background(), "good", FilterNonProfit)
	if len(got) != 1 || got[0].Subtitle != "Non Profit" {
		t.Errorf("non_profit subtitle = %v, want \"Non Profit\"", got)
	}

	got = r.Search(context.Background(), "mill", FilterSupplier)
	if len(got) != 1 || got[0].Subtitle != "Supplier" {
		t.Errorf("supplier subtitle = %v, want \"Supplier\"", got)
	}
}

func TestSearchFailingSingleSourceNeverErrors(t *testing.T) {
	f := &fakeBackend{
		failPages:    true,
		failEntities: map[string]bool{"brand": true},
	}
	r := New(f, f, nil)

	for _, filter := range []Filter{FilterPage, FilterBrand} {
		if got := r.Search(context.Background(), "q", filter); len(got) != 0 {
			t.Errorf("filter %s: got %v, want empty degraded result", filter, got)
		}
	}
}
