package policy

import (
	"context"
	"testing"
)

func TestStaticClientCheck(t *testing.T) {
	client := NewStaticClient(DemoTuples())

	tests := []struct {
		name    string
		subject string
		object  string
		want    bool
	}{
		{
			name:    "employee can view public document via everyone group",
			subject: "user:bob_employee",
			object:  "document:holiday_schedule",
			want:    true,
		},
		{
			name:    "employee cannot view restricted document",
			subject: "user:bob_employee",
			object:  "document:q4_budget",
			want:    false,
		},
		{
			name:    "manager can view restricted document via managers group",
			subject: "user:alice_manager",
			object:  "document:q4_budget",
			want:    true,
		},
		{
			name:    "manager can view public document",
			subject: "user:alice_manager",
			object:  "document:holiday_schedule",
			want:    true,
		},
		{
			name:    "unknown user gets nothing",
			subject: "user:mallory",
			object:  "document:holiday_schedule",
			want:    false,
		},
		{
			name:    "unknown document gets nothing",
			subject: "user:alice_manager",
			object:  "document:unknown",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.Check(context.Background(), CheckRequest{
				Subject:  tt.subject,
				Relation: "view",
				Object:   tt.object,
			})
			if err != nil {
				t.Fatalf("Check returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Check(%s, view, %s) = %v, want %v", tt.subject, tt.object, got, tt.want)
			}
		})
	}
}

func TestStaticClientDirectTuple(t *testing.T) {
	client := NewStaticClient(nil)
	client.Write(Tuple{Subject: "user:carol", Relation: "view", Object: "document:notes"})

	got, err := client.Check(context.Background(), CheckRequest{
		Subject:  "user:carol",
		Relation: "view",
		Object:   "document:notes",
	})
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !got {
		t.Error("direct tuple not honored")
	}
}

func TestStaticClientHonorsContext(t *testing.T) {
	client := NewStaticClient(DemoTuples())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Check(ctx, CheckRequest{
		Subject:  "user:alice_manager",
		Relation: "view",
		Object:   "document:q4_budget",
	})
	if err == nil {
		t.Error("cancelled context did not surface an error")
	}
}
