package history

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAppendAndRecent(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	s.Append("s1", Turn{Role: RoleUser, Content: "hello"})
	s.Append("s1", Turn{Role: RoleAssistant, Content: "hi there"})

	got := s.Recent("s1")
	if len(got) != 2 {
		t.Fatalf("Recent() len = %d, want 2", len(got))
	}
	if got[0].Content != "hello" || got[1].Content != "hi there" {
		t.Fatalf("Recent() order wrong: %+v", got)
	}
}

func TestRecentUnseenSession(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	if got := s.Recent("nope"); got != nil {
		t.Fatalf("Recent() for unseen session = %+v, want nil", got)
	}
}

func TestAppendTrimsToMaxTurns(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	for i := 0; i < MaxTurns+5; i++ {
		s.Append("s1", Turn{Role: RoleUser, Content: fmt.Sprintf("msg-%d", i)})
	}

	got := s.Recent("s1")
	if len(got) != MaxTurns {
		t.Fatalf("Recent() len = %d, want %d", len(got), MaxTurns)
	}
	for i, turn := range got {
		want := fmt.Sprintf("msg-%d", i+5)
		if turn.Content != want {
			t.Fatalf("Recent()[%d] = %q, want %q", i, turn.Content, want)
		}
	}
}

func TestRecentReturnsCopy(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	s.Append("s1", Turn{Role: RoleUser, Content: "original"})

	got := s.Recent("s1")
	got[0].Content = "mutated"

	if again := s.Recent("s1"); again[0].Content != "original" {
		t.Fatalf("Recent() must return a copy, store saw %q", again[0].Content)
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				s.Append("shared", Turn{Role: RoleUser, Content: fmt.Sprintf("%d-%d", n, j)})
			}
		}(i)
	}
	wg.Wait()

	if got := s.Recent("shared"); len(got) != MaxTurns {
		t.Fatalf("Recent() len = %d, want %d after concurrent appends", len(got), MaxTurns)
	}
}

func TestJanitorEvictsIdleSessions(t *testing.T) {
	s := NewMemoryStore(30 * time.Millisecond)
	s.Append("stale", Turn{Role: RoleUser, Content: "hello"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartJanitor(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.SessionCount() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("janitor did not evict the idle session")
}
