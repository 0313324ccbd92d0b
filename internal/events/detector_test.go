package events

import (
	"testing"

	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func TestNeedCriticalAndRecoveredFireOnce(t *testing.T) {
	d := NewDetector()
	r := &worldstate.Resident{ID: 1, Needs: worldstate.Needs{Hunger: 50, Health: 100}}

	d.Observe(r, 0) // seeds the baseline snapshot, no notification yet
	r.PendingNotifications = nil

	r.Needs.Hunger = 9.999
	d.Observe(r, 1)
	if !hasNotification(r.PendingNotifications, "need_critical") {
		t.Fatal("expected need_critical when hunger drops below 10")
	}
	r.PendingNotifications = nil

	d.Observe(r, 2) // no crossing the second time at the same value
	if hasNotification(r.PendingNotifications, "need_critical") {
		t.Fatal("need_critical must not re-fire without a fresh crossing")
	}

	r.Needs.Hunger = 35
	d.Observe(r, 3)
	if !hasNotification(r.PendingNotifications, "need_recovered") {
		t.Fatal("expected need_recovered when hunger rises above 30")
	}
}

func TestDeathNotificationOnHealthZeroCrossing(t *testing.T) {
	d := NewDetector()
	r := &worldstate.Resident{ID: 1, Needs: worldstate.Needs{Hunger: 0, Health: 1}}
	d.Observe(r, 0)
	r.PendingNotifications = nil

	r.Needs.Health = 0
	d.Observe(r, 1)
	if !hasNotification(r.PendingNotifications, "death") {
		t.Fatal("expected a death notification when health crosses to zero")
	}
}

func TestPainRespectsMinimumGap(t *testing.T) {
	d := NewDetector()
	r := &worldstate.Resident{ID: 1, Needs: worldstate.Needs{Hunger: 3, Thirst: 100, Social: 100, Health: 100}}
	d.Observe(r, 0)
	if len(r.PendingPain) != 1 {
		t.Fatalf("expected one agony pain message, got %d", len(r.PendingPain))
	}
	r.PendingPain = nil

	d.Observe(r, 5) // within the 30s gap
	if len(r.PendingPain) != 0 {
		t.Fatal("pain should not repeat inside the minimum gap")
	}

	d.Observe(r, 31)
	if len(r.PendingPain) != 1 {
		t.Fatal("pain should resume once the gap elapses")
	}
}

func hasNotification(ns []worldstate.Notification, kind string) bool {
	for _, n := range ns {
		if n.Kind == kind {
			return true
		}
	}
	return false
}
