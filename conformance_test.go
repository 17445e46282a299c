package formjs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// A conformance suite is a YAML file of scripts with expected outcomes,
// executed end to end through the public API.
type conformanceSuite struct {
	Name  string            `yaml:"name"`
	Cases []conformanceCase `yaml:"cases"`
}

type conformanceCase struct {
	Name   string `yaml:"name"`
	Script string `yaml:"script"`
	Result string `yaml:"result"` // rendering of the final value, if any
	Output string `yaml:"output"` // expected console output
	Error  string `yaml:"error"`  // substring of the expected error
	Drain  bool   `yaml:"drain"`  // drain the deferred-call queue after the run
}

func loadSuites(t *testing.T) []conformanceSuite {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatalf("globbing testdata: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no conformance suites found under testdata/")
	}

	var suites []conformanceSuite
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		var suite conformanceSuite
		if err := yaml.Unmarshal(data, &suite); err != nil {
			t.Fatalf("unmarshalling %s: %v", path, err)
		}
		if len(suite.Cases) == 0 {
			t.Fatalf("%s: suite has no cases", path)
		}
		if suite.Name == "" {
			suite.Name = strings.TrimSuffix(filepath.Base(path), ".yaml")
		}
		suites = append(suites, suite)
	}
	return suites
}

func TestConformance(t *testing.T) {
	for _, suite := range loadSuites(t) {
		suite := suite
		t.Run(suite.Name, func(t *testing.T) {
			for _, tc := range suite.Cases {
				tc := tc
				t.Run(tc.Name, func(t *testing.T) {
					var out bytes.Buffer
					ctx := NewContext(&out)

					val, err := Run(tc.Script, ctx)
					if err == nil && tc.Drain {
						err = ctx.DrainTimers()
					}

					if tc.Error != "" {
						if err == nil {
							t.Fatalf("expected error containing %q, got none", tc.Error)
						}
						if !strings.Contains(err.Error(), tc.Error) {
							t.Fatalf("expected error containing %q, got %q", tc.Error, err.Error())
						}
						return
					}
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}

					if tc.Result != "" {
						got := val.ToString()
						if got != tc.Result {
							t.Errorf("result: expected %q, got %q", tc.Result, got)
						}
					}
					if tc.Output != "" {
						if out.String() != tc.Output {
							t.Errorf("output: expected %q, got %q", tc.Output, out.String())
						}
					}
				})
			}
		})
	}
}
