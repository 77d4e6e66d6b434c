package executor

import (
	"reflect"
	"testing"
)

func TestMergeEnvironment(t *testing.T) {
	tests := []struct {
		name      string
		base      []string
		overrides map[string]string
		want      []string
	}{
		{
			name:      "appends new key",
			base:      []string{"HOME=/home/u", "PATH=/bin"},
			overrides: map[string]string{"RALPH_STARTUP_BENCH": "1"},
			want:      []string{"HOME=/home/u", "PATH=/bin", "RALPH_STARTUP_BENCH=1"},
		},
		{
			name:      "replaces existing key in place",
			base:      []string{"RALPH_STARTUP_BENCH=0", "PATH=/bin"},
			overrides: map[string]string{"RALPH_STARTUP_BENCH": "1"},
			want:      []string{"RALPH_STARTUP_BENCH=1", "PATH=/bin"},
		},
		{
			name:      "collapses duplicate overridden keys",
			base:      []string{"A=1", "B=2", "A=3"},
			overrides: map[string]string{"A": "9"},
			want:      []string{"A=9", "B=2"},
		},
		{
			name:      "new keys are sorted",
			base:      nil,
			overrides: map[string]string{"Z": "1", "A": "2", "M": "3"},
			want:      []string{"A=2", "M=3", "Z=1"},
		},
		{
			name:      "keeps malformed entries",
			base:      []string{"=C:=C:\\", "NOEQUALS"},
			overrides: nil,
			want:      []string{"=C:=C:\\", "NOEQUALS"},
		},
		{
			name:      "value may contain equals",
			base:      []string{"OPTS=a=b"},
			overrides: map[string]string{"FLAG": "x=y"},
			want:      []string{"OPTS=a=b", "FLAG=x=y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeEnvironment(tt.base, tt.overrides)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeEnvironment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeEnvironment_DoesNotMutateBase(t *testing.T) {
	base := []string{"RALPH_STARTUP_BENCH=0", "PATH=/bin"}
	snapshot := append([]string(nil), base...)

	_ = MergeEnvironment(base, map[string]string{"RALPH_STARTUP_BENCH": "1", "EXTRA": "x"})

	if !reflect.DeepEqual(base, snapshot) {
		t.Errorf("base modified: %v", base)
	}
}

func TestLookupEnvironment(t *testing.T) {
	env := []string{"A=1", "B=2", "A=3"}

	if v, ok := LookupEnvironment(env, "A"); !ok || v != "3" {
		t.Errorf("LookupEnvironment(A) = %q, %v; want last assignment", v, ok)
	}
	if _, ok := LookupEnvironment(env, "C"); ok {
		t.Error("LookupEnvironment(C) should not be found")
	}
}
