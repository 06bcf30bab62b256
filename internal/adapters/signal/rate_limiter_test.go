package signal

import (
	"testing"
	"time"
)

func TestMessageRateLimiter_AllowWithinLimit(t *testing.T) {
	rl := NewMessageRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("attempt %d must be allowed", i+1)
		}
	}
	if rl.Allow("a") {
		t.Fatalf("fourth attempt must be blocked")
	}
}

func TestMessageRateLimiter_SendersAreIndependent(t *testing.T) {
	rl := NewMessageRateLimiter(1, time.Minute)

	if !rl.Allow("a") {
		t.Fatalf("a's first attempt must be allowed")
	}
	if !rl.Allow("b") {
		t.Fatalf("b must not be affected by a's history")
	}
	if rl.Allow("a") {
		t.Fatalf("a's second attempt must be blocked")
	}
}

func TestMessageRateLimiter_WindowExpires(t *testing.T) {
	rl := NewMessageRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("a") {
		t.Fatalf("first attempt must be allowed")
	}
	time.Sleep(20 * time.Millisecond)
	if !rl.Allow("a") {
		t.Fatalf("attempt after the window must be allowed")
	}
}
