package pipeline_config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

func GetFilesWithExtension(workingDir string, ext string) ([]string, error) {
	var files []string
	listOfFiles, err := os.ReadDir(workingDir)
	if err != nil {
		return nil, errors.New(fmt.Sprintf("error reading directory %s: %v", workingDir, err))
	}
	for _, f := range listOfFiles {
		if !f.IsDir() {
			r, err := filepath.Match("*"+ext, f.Name())
			if err == nil && r {
				files = append(files, f.Name())
			}
		}
	}

	return files, nil
}

// DetectPythonPackageName checks that the working directory holds a python
// package and derives its distribution name from the directory name.
func DetectPythonPackageName(workingDir string) (string, error) {
	for _, marker := range []string{"pyproject.toml", "setup.py", "setup.cfg"} {
		if isFileExists(path.Join(workingDir, marker)) {
			absDir, err := filepath.Abs(workingDir)
			if err != nil {
				return "", err
			}
			return NormalizePackageName(filepath.Base(absDir)), nil
		}
	}
	return "", fmt.Errorf("no python package detected in %s", workingDir)
}

// DetectTestModule returns the conventional test module directory if one with
// python files exists, or "" when the package carries no tests.
func DetectTestModule(workingDir string) (string, error) {
	for _, candidate := range []string{"tests", "test"} {
		dir := path.Join(workingDir, candidate)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		pythonFiles, err := GetFilesWithExtension(dir, ".py")
		if err != nil {
			return "", err
		}
		if len(pythonFiles) > 0 {
			return candidate, nil
		}
	}
	return "", nil
}

func NormalizeFileName(fileName string) string {
	res, err := filepath.Abs(path.Join("/", fileName))
	if err != nil {
		slog.Error("failed to convert path to absolute", "fileName", fileName, "error", err)
		panic(err)
	}
	return res
}

// MatchesTestModule reports whether a repository file falls under the test
// module selector of the manifest.
func MatchesTestModule(fileToMatch string, testModuleName string) bool {
	if testModuleName == "" {
		return false
	}
	patterns := []string{testModuleName, path.Join(testModuleName, "**", "*")}

	fileToMatch = NormalizeFileName(fileToMatch)
	for _, pattern := range patterns {
		isMatched, err := doublestar.PathMatch(NormalizeFileName(pattern), fileToMatch)
		if err != nil {
			slog.Error("failed to match file with test module selector",
				"file", fileToMatch,
				"pattern", pattern,
				"error", err)
			panic(err)
		}
		if isMatched {
			return true
		}
	}
	return false
}
