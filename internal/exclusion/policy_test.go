package exclusion_test

import (
	"reflect"
	"testing"

	"github.com/temirov/codemass/internal/exclusion"
)

func TestBuildClassifiesTokens(testingInstance *testing.T) {
	config := exclusion.Build(exclusion.Options{
		ExcludeTokens: []string{"LOG", ".Txt", " ", "*.gen.go", "foo.test.ts", "x.spec.js", "src/gen", "file?.txt", "[ab].go"},
		GlobPatterns:  []string{" *.PB.go ", "", "[unclosed"},
	})

	expectedExtensions := []string{".[ab].go", ".file?.txt", ".log", ".src/gen", ".txt"}
	if extensions := config.Extensions(); !reflect.DeepEqual(extensions, expectedExtensions) {
		testingInstance.Fatalf("expected extensions %v, got %v", expectedExtensions, extensions)
	}

	expectedPatterns := []string{"*.gen.go", "foo.test.ts", "x.spec.js"}
	if patterns := config.NamePatterns(); !reflect.DeepEqual(patterns, expectedPatterns) {
		testingInstance.Fatalf("expected patterns %v, got %v", expectedPatterns, patterns)
	}

	expectedGlobs := []string{"*.pb.go"}
	if globs := config.GlobPatterns(); !reflect.DeepEqual(globs, expectedGlobs) {
		testingInstance.Fatalf("expected globs %v, got %v", expectedGlobs, globs)
	}
}

func TestIsExcluded(testingInstance *testing.T) {
	config := exclusion.Build(exclusion.Options{
		ExcludeTokens: []string{"log", "*.test.*", "*.gen.go"},
		DisableJSON:   true,
	})

	testCases := []struct {
		name      string
		fileName  string
		extension string
		expected  bool
	}{
		{name: "excluded extension", fileName: "server.log", extension: ".log", expected: true},
		{name: "extension is case insensitive", fileName: "server.log", extension: ".LOG", expected: true},
		{name: "json group", fileName: "package.json", extension: ".json", expected: true},
		{name: "json5 group", fileName: "settings.json5", extension: ".json5", expected: true},
		{name: "markdown still included", fileName: "readme.md", extension: ".md", expected: false},
		{name: "test marker", fileName: "app.test.ts", extension: ".ts", expected: true},
		{name: "wildcard token without marker", fileName: "models.gen.go", extension: ".go", expected: false},
		{name: "plain source", fileName: "main.go", extension: ".go", expected: false},
		{name: "no extension", fileName: "makefile", extension: "", expected: false},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(t *testing.T) {
			if actual := config.IsExcluded(testCase.fileName, testCase.extension); actual != testCase.expected {
				t.Fatalf("IsExcluded(%q, %q): expected %t, got %t", testCase.fileName, testCase.extension, testCase.expected, actual)
			}
		})
	}
}

func TestCategoryGroups(testingInstance *testing.T) {
	config := exclusion.Build(exclusion.Options{DisableMarkdown: true, DisableYAML: true})
	for _, extension := range append(append([]string{}, exclusion.MarkdownExtensions...), exclusion.YAMLExtensions...) {
		if !config.IsExcluded("file"+extension, extension) {
			testingInstance.Errorf("expected %s to be excluded", extension)
		}
	}
	for _, extension := range exclusion.JSONExtensions {
		if config.IsExcluded("file"+extension, extension) {
			testingInstance.Errorf("expected %s to stay included", extension)
		}
	}
}

func TestSpecMarkerMatchesAnySpecFile(testingInstance *testing.T) {
	config := exclusion.Build(exclusion.Options{ExcludeTokens: []string{".spec."}})
	if !config.IsExcluded("button.spec.tsx", ".tsx") {
		testingInstance.Fatalf("expected spec file to be excluded")
	}
	if config.IsExcluded("button.tsx", ".tsx") {
		testingInstance.Fatalf("expected plain file to stay included")
	}
	if config.IsExcluded("button.test.tsx", ".tsx") {
		testingInstance.Fatalf("expected test file to stay included when only spec files are excluded")
	}
}

func TestPatternWithoutWildcardFallsThroughToExtension(testingInstance *testing.T) {
	config := exclusion.Build(exclusion.Options{ExcludeTokens: []string{"generated"}})
	if config.IsExcluded("generated.go", ".go") {
		testingInstance.Fatalf("expected a bare word to act only as an extension")
	}
	if !config.IsExcluded("data.generated", ".generated") {
		testingInstance.Fatalf("expected the bare word to exclude the matching extension")
	}
}

func TestWildcardExcludeTokenIsNotGlobMatched(testingInstance *testing.T) {
	config := exclusion.Build(exclusion.Options{ExcludeTokens: []string{"*.log"}})
	if config.IsExcluded("app.log", ".log") {
		testingInstance.Fatalf("expected *.log to be stored as a name pattern without excluding app.log")
	}
	if !reflect.DeepEqual(config.NamePatterns(), []string{"*.log"}) {
		testingInstance.Fatalf("expected *.log as name pattern, got %v", config.NamePatterns())
	}
}

func TestGlobPatternsMatchFileNames(testingInstance *testing.T) {
	config := exclusion.Build(exclusion.Options{GlobPatterns: []string{"*.gen.go", "FILE?.TXT", "[ab].md"}})

	testCases := []struct {
		name      string
		fileName  string
		extension string
		expected  bool
	}{
		{name: "star", fileName: "models.gen.go", extension: ".go", expected: true},
		{name: "question mark", fileName: "file1.txt", extension: ".txt", expected: true},
		{name: "question mark needs one character", fileName: "file10.txt", extension: ".txt", expected: false},
		{name: "character class", fileName: "a.md", extension: ".md", expected: true},
		{name: "outside character class", fileName: "c.md", extension: ".md", expected: false},
		{name: "unrelated file", fileName: "main.go", extension: ".go", expected: false},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(t *testing.T) {
			if actual := config.IsExcluded(testCase.fileName, testCase.extension); actual != testCase.expected {
				t.Fatalf("IsExcluded(%q, %q): expected %t, got %t", testCase.fileName, testCase.extension, testCase.expected, actual)
			}
		})
	}
}

func TestEmptyConfigExcludesNothing(testingInstance *testing.T) {
	var config exclusion.Config
	if config.IsExcluded("main.go", ".go") {
		testingInstance.Fatalf("expected zero config to exclude nothing")
	}
}
