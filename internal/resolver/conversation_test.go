package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBuildDirectRequest(t *testing.T) {
	req, err := BuildRequest([]Participant{{ID: "u1", Kind: KindUser}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if req.RecipientID != "u1" {
		t.Errorf("RecipientID = %q, want u1", req.RecipientID)
	}
	if req.EntityID != "" || len(req.ParticipantIDs) != 0 || req.Name != "" {
		t.Errorf("direct request carried extra fields: %+v", req)
	}
}

func TestBuildEntityRequest(t *testing.T) {
	req, err := BuildRequest([]Participant{{ID: "b1", Kind: KindBrand}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if req.EntityType != "brand" || req.EntityID != "b1" {
		t.Errorf("request = %+v, want entityType=brand entityId=b1", req)
	}
	if req.RecipientID != "" {
		t.Errorf("entity request must not set recipientId")
	}
}

func TestBuildGroupRequest(t *testing.T) {
	sel := []Participant{
		{ID: "u1", Name: "Ana", Kind: KindUser},
		{ID: "u2", Name: "Bea", Kind: KindUser},
	}
	req, err := BuildRequest(sel, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(req.ParticipantIDs) != 2 {
		t.Fatalf("ParticipantIDs = %v", req.ParticipantIDs)
	}
	if req.Name != "Group: Ana, Bea" {
		t.Errorf("Name = %q, want derived default", req.Name)
	}
}

func TestBuildGroupRequestExplicitName(t *testing.T) {
	// A group name forces the group branch even for a single user.
	req, err := BuildRequest([]Participant{{ID: "u1", Name: "Ana", Kind: KindUser}}, "Fit check crew")
	if err != nil {
		t.Fatal(err)
	}
	if req.Name != "Fit check crew" || len(req.ParticipantIDs) != 1 {
		t.Errorf("request = %+v", req)
	}
	if req.RecipientID != "" {
		t.Error("named conversation must not be direct")
	}
}

func TestBuildGroupNameTruncated(t *testing.T) {
	sel := []Participant{
		{ID: "u1", Name: strings.Repeat("a", 80), Kind: KindUser},
		{ID: "u2", Name: strings.Repeat("b", 80), Kind: KindUser},
	}
	req, err := BuildRequest(sel, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Name) != maxGroupNameLen {
		t.Errorf("len(Name) = %d, want %d", len(req.Name), maxGroupNameLen)
	}
	if !strings.HasPrefix(req.Name, "Group: ") {
		t.Errorf("Name = %q", req.Name)
	}
}

func TestBuildGroupRejectsNonUsers(t *testing.T) {
	sel := []Participant{
		{ID: "u1", Kind: KindUser},
		{ID: "b1", Kind: KindBrand},
	}
	_, err := BuildRequest(sel, "")
	if !errors.Is(err, ErrInvalidParticipants) {
		t.Errorf("err = %v, want ErrInvalidParticipants", err)
	}
}

func TestBuildEmptySelection(t *testing.T) {
	if _, err := BuildRequest(nil, ""); !errors.Is(err, ErrNoParticipants) {
		t.Errorf("err = %v, want ErrNoParticipants", err)
	}
}

func TestCreateInvalidSelectionMakesNoNetworkCall(t *testing.T) {
	f := &fakeBackend{}
	r := New(f, f, nil)

	sel := []Participant{
		{ID: "u1", Kind: KindUser},
		{ID: "b1", Kind: KindBrand},
	}
	_, err := r.Create(context.Background(), sel, "")
	if !errors.Is(err, ErrInvalidParticipants) {
		t.Fatalf("err = %v, want ErrInvalidParticipants", err)
	}
	if f.convCalls != 0 {
		t.Errorf("convCalls = %d, want 0 (validation is purely local)", f.convCalls)
	}
}

func TestCreateDirect(t *testing.T) {
	f := &fakeBackend{}
	r := New(f, f, nil)

	conv, err := r.Create(context.Background(), []Participant{{ID: "u1", Kind: KindUser}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if conv.ID != "conv-1" {
		t.Errorf("conv.ID = %q", conv.ID)
	}
	if f.convCalls != 1 || f.lastReq.RecipientID != "u1" {
		t.Errorf("calls = %d, lastReq = %+v", f.convCalls, f.lastReq)
	}
}
