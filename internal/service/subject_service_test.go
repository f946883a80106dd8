package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
	pkgerrors "skoolife/backend/pkg/errors"
)

func strptr(s string) *string { return &s }

func TestSubjectCreateDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := NewSubjectService(repo, zap.NewNop())

	resp, err := svc.Create(context.Background(), "u1", &dto.CreateSubjectRequest{Name: "Maths"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Color != "#6366f1" {
		t.Fatalf("default color %q", resp.Color)
	}
	if resp.ExamWeight != 3 {
		t.Fatalf("default weight %d, want 3", resp.ExamWeight)
	}
	if resp.Status != model.SubjectStatusActive || resp.Version != 1 {
		t.Fatalf("got status=%q version=%d", resp.Status, resp.Version)
	}
}

func TestSubjectUpdateOptimisticLock(t *testing.T) {
	repo := newMockRepository()
	svc := NewSubjectService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), "u1", &dto.CreateSubjectRequest{Name: "Maths"})
	if err != nil {
		t.Fatal(err)
	}

	// first editor wins and bumps the version
	updated, err := svc.Update(context.Background(), "u1", created.ID, &dto.UpdateSubjectRequest{
		Name:    strptr("Maths Spé"),
		Version: 1,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("version %d, want 2", updated.Version)
	}

	// second editor still holds version 1 and must be rejected
	_, err = svc.Update(context.Background(), "u1", created.ID, &dto.UpdateSubjectRequest{
		Name:    strptr("Maths Expertes"),
		Version: 1,
	})
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Fatalf("got %v, want ErrOptimisticLock", err)
	}

	stored, _ := svc.Get(context.Background(), "u1", created.ID)
	if stored.Name != "Maths Spé" {
		t.Fatalf("stale write must not land, got %q", stored.Name)
	}
}

func TestSubjectListFiltersByStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewSubjectService(repo, zap.NewNop())

	active, err := svc.Create(context.Background(), "u1", &dto.CreateSubjectRequest{Name: "Active"})
	if err != nil {
		t.Fatal(err)
	}
	archived, err := svc.Create(context.Background(), "u1", &dto.CreateSubjectRequest{Name: "Archived"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateStatus(context.Background(), "u1", archived.ID, model.SubjectStatusArchived); err != nil {
		t.Fatal(err)
	}

	out, err := svc.List(context.Background(), "u1", []string{model.SubjectStatusActive})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != active.ID {
		t.Fatalf("got %v, want only the active subject", out)
	}

	all, err := svc.List(context.Background(), "u1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered list has %d subjects, want 2", len(all))
	}
}

func TestSubjectOwnershipHidden(t *testing.T) {
	repo := newMockRepository()
	svc := NewSubjectService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), "owner", &dto.CreateSubjectRequest{Name: "Private"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(context.Background(), "intruder", created.ID); !errors.Is(err, ErrSubjectNotFound) {
		t.Fatalf("foreign subjects must look not-found, got %v", err)
	}
	if err := svc.Delete(context.Background(), "intruder", created.ID); !errors.Is(err, ErrSubjectNotFound) {
		t.Fatalf("foreign delete must look not-found, got %v", err)
	}
}
