package main

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/tdewolff/test"

	"github.com/tomisinteazer/rjscompiler"
)

func TestCreateTasks(t *testing.T) {
	fsys := fstest.MapFS{
		"a.js":     {},
		"dir/b.js": {},
	}

	tests := []struct {
		input, output string
		tasks         map[string]string
	}{
		// root file
		{"a.js", "", map[string]string{"a.js": ""}},
		{"a.js", ".", map[string]string{"a.js": "a.js"}},
		{"a.js", "./", map[string]string{"a.js": "a.js"}},
		{"a.js", "out", map[string]string{"a.js": "out"}},
		{"a.js", "out/", map[string]string{"a.js": "out/a.js"}},

		// nested file
		{"dir/b.js", "", map[string]string{"dir/b.js": ""}},
		{"dir/b.js", ".", map[string]string{"dir/b.js": "b.js"}},
		{"dir/b.js", "./", map[string]string{"dir/b.js": "b.js"}},
		{"dir/b.js", "out", map[string]string{"dir/b.js": "out"}},
		{"dir/b.js", "out/", map[string]string{"dir/b.js": "out/b.js"}},

		// directory
		{"dir", "", map[string]string{"dir/b.js": ""}},
		{"dir", ".", map[string]string{"dir/b.js": "dir/b.js"}},
		{"dir", "./", map[string]string{"dir/b.js": "dir/b.js"}},
		{"dir", "out/", map[string]string{"dir/b.js": "out/dir/b.js"}},
		{"dir/", "out/", map[string]string{"dir/b.js": "out/b.js"}},
	}

	recursive = true
	for _, tt := range tests {
		t.Run(tt.input+" => "+tt.output, func(t *testing.T) {
			tasks, _, err := createTasks(fsys, []string{tt.input}, tt.output)
			test.Error(t, err)
			if len(tasks) != len(tt.tasks) {
				test.Fail(t, fmt.Sprintf("missing %v", tt.tasks))
			}
			for _, task := range tasks {
				if dst, ok := tt.tasks[task.srcs[0]]; !ok || dst != task.dst {
					test.Fail(t, fmt.Sprintf("unexpected %s => %s", task.srcs[0], task.dst))
				}
			}
		})
	}
}

func TestFileMatches(t *testing.T) {
	tests := []struct {
		filename string
		matches  bool
	}{
		{"a.js", true},
		{"a.mjs", true},
		{"a.cjs", true},
		{"a.json", false},
		{"a.ts", false},
		{"a", false},
	}

	matches, filters = nil, nil
	matchesRegexp, filtersRegexp = nil, nil
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			test.T(t, fileMatches(tt.filename), tt.matches)
		})
	}
}

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		pattern  string
		filename string
		matches  bool
	}{
		{"*.js", "a.js", true},
		{"*.js", "dir/a.js", false},
		{"**.js", "dir/a.js", true},
		{"a?.js", "ab.js", true},
		{"a?.js", "abc.js", false},
		{"~a+\\.js", "aaa.js", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.filename, func(t *testing.T) {
			re, err := compilePattern(tt.pattern)
			test.Error(t, err)
			test.T(t, re.MatchString(tt.filename), tt.matches)
		})
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := parseFormat("sideways"); err == nil {
		test.Fail(t, "expected error for unknown format")
	}
	format, err := parseFormat("pretty")
	test.Error(t, err)
	test.T(t, format, rjscompiler.Pretty)
}
