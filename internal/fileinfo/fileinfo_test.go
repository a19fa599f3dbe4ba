package fileinfo

import (
	"reflect"
	"testing"
)

func TestSetPreservesInsertionOrder(t *testing.T) {
	fi := New()
	fi.Set("out", "/data/out.vcf")
	fi.Set("index", "/data/out.vcf.tbi")
	fi.Set("out", "/data/other.vcf") // re-set keeps position

	if got := fi.Keys(); !reflect.DeepEqual(got, []string{"out", "index"}) {
		t.Fatalf("unexpected key order: %v", got)
	}
	if got := fi.Path("out"); got != "/data/other.vcf" {
		t.Fatalf("unexpected path: %q", got)
	}
	if fi.Len() != 2 {
		t.Fatalf("unexpected len: %d", fi.Len())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	fi := FromPairs("out", "/data/out.bam")
	cp := fi.Clone()
	cp.Set("out", "/tmp/staged.bam")

	if got := fi.Path("out"); got != "/data/out.bam" {
		t.Fatalf("clone mutated original: %q", got)
	}
	if got := cp.Path("out"); got != "/tmp/staged.bam" {
		t.Fatalf("unexpected clone path: %q", got)
	}
}

func TestSubstituteKeysReplacesKnownTokens(t *testing.T) {
	fi := FromPairs("x", "resolved")
	got := SubstituteKeys([]string{"x", "lit"}, fi)
	if !reflect.DeepEqual(got, []string{"resolved", "lit"}) {
		t.Fatalf("unexpected substitution: %v", got)
	}
}

func TestSubstituteKeysPassesUnknownTokensThrough(t *testing.T) {
	fi := FromPairs("x", "resolved")
	in := []string{"y", "lit"}
	got := SubstituteKeys(in, fi)
	if !reflect.DeepEqual(got, []string{"y", "lit"}) {
		t.Fatalf("unexpected substitution: %v", got)
	}
	// input untouched
	if !reflect.DeepEqual(in, []string{"y", "lit"}) {
		t.Fatalf("input slice mutated: %v", in)
	}
}
