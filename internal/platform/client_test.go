package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/loom-social/loom/internal/store"
)

func TestSearchUsersSendsQueryAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Errorf("path = %q, want /users", r.URL.Path)
		}
		if got := r.URL.Query().Get("search"); got != "ana" {
			t.Errorf("search = %q, want ana", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth = %q, want Bearer tok", got)
		}
		_ = json.NewEncoder(w).Encode([]UserRecord{{ID: "u1", Username: "ana"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	users, err := c.SearchUsers(context.Background(), "ana", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].ID != "u1" {
		t.Errorf("users = %+v", users)
	}
}

func TestCreateConversationBody(t *testing.T) {
	var got CreateConversationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/messages/conversations" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(Conversation{ID: "c1", Slug: "c-slug"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	conv, err := c.CreateConversation(context.Background(), &CreateConversationRequest{RecipientID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if conv.ID != "c1" {
		t.Errorf("conv.ID = %q", conv.ID)
	}
	if got.RecipientID != "u1" {
		t.Errorf("request body = %+v, want recipientId u1", got)
	}
}

func TestServerErrorSurfacesMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "name already taken"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.CreateConversation(context.Background(), &CreateConversationRequest{RecipientID: "u1"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "name already taken" {
		t.Errorf("message = %q, want server wording", apiErr.Message)
	}
}

func TestBulkSyncReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Items []ItemPayload `json:"items"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Items) != 2 {
			t.Errorf("got %d items, want 2", len(body.Items))
		}
		if !body.Items[1].Deleted {
			t.Error("second item should carry the tombstone flag")
		}
		_ = json.NewEncoder(w).Encode(SyncReport{
			Synced: 1,
			Failed: 1,
			Errors: []SyncItemError{{ItemID: body.Items[0].ID, Message: "stale version"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	report, err := c.BulkSync(context.Background(), []ItemPayload{
		FromEntry(&store.Entry{Item: store.Item{ID: "a"}}),
		FromEntry(&store.Entry{Item: store.Item{ID: "b"}, IsDeleted: true}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Synced != 1 || report.Failed != 1 || len(report.Errors) != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestItemPayloadRoundTrip(t *testing.T) {
	item := store.Item{
		ID:            "it1",
		Name:          "Denim jacket",
		Brand:         "Levi's",
		CategoryPage:  "outerwear",
		CategoryBlue:  "jackets",
		CategoryWhite: "denim",
		Condition:     "good",
		Colors:        []string{"indigo"},
		Images:        []store.Image{{URL: "https://cdn.loom.social/i/1.jpg", Primary: true}},
		VUFSCode:      "VU-001",
		CreatedAt:     1000,
		UpdatedAt:     2000,
	}

	p := FromItem(&item)
	back := ToItem(&p)
	if back.ID != item.ID || back.CategoryBlue != "jackets" || back.Condition != "good" {
		t.Errorf("round trip = %+v", back)
	}
	if len(back.Images) != 1 || !back.Images[0].Primary {
		t.Errorf("images = %+v", back.Images)
	}
}
