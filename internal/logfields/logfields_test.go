package logfields

import (
	"fmt"
	"log/slog"
	"testing"
)

func TestHelpersProduceExpectedKeys(t *testing.T) {
	cases := []struct {
		attr slog.Attr
		key  string
	}{
		{RunID("r"), KeyRunID},
		{Stage("generation"), KeyStage},
		{Status("degraded"), KeyStatus},
		{Project("demo"), KeyProject},
		{Package("demo_pkg"), KeyPackage},
		{Descriptor("web-api"), KeyDescriptor},
		{Capability("version-control"), KeyCapability},
		{Provider("go-git"), KeyProvider},
		{Path("src/demo_pkg"), KeyPath},
		{DurationMS(12.5), KeyDurationMS},
	}
	for _, c := range cases {
		if c.attr.Key != c.key {
			t.Errorf("expected key %s got %s", c.key, c.attr.Key)
		}
	}
}

func TestErrorAttr(t *testing.T) {
	if got := Error(nil); got.Value.String() != "" {
		t.Errorf("nil error should map to empty string, got %q", got.Value.String())
	}
	if got := Error(fmt.Errorf("boom")); got.Value.String() != "boom" {
		t.Errorf("expected boom got %q", got.Value.String())
	}
}
