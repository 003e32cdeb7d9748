package fonts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Exts are the extensions considered font files.
var Exts = []string{".ttf", ".otf"}

// BaseDirs returns candidate font directories relative to the working directory,
// so fonts are found whether run from the repo root or cmd/drive.
func BaseDirs() []string {
	return []string{"assets/fonts", "../../assets/fonts"}
}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf"),
// sorted, with forward slashes. A missing dir yields no fonts and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Find returns the full path of the HUD font in the first of dirs holding any font.
// A "Regular" face is preferred; mono faces come next so telemetry columns line up.
func Find(dirs ...string) (string, bool) {
	if len(dirs) == 0 {
		dirs = BaseDirs()
	}
	for _, dir := range dirs {
		list, err := ScanDir(dir)
		if err != nil || len(list) == 0 {
			continue
		}
		best, score := list[0], -1
		for _, rel := range list {
			lower := strings.ToLower(rel)
			s := 0
			if strings.Contains(lower, "regular") {
				s += 2
			}
			if strings.Contains(lower, "mono") {
				s++
			}
			if s > score {
				best, score = rel, s
			}
		}
		return filepath.Join(dir, filepath.FromSlash(best)), true
	}
	return "", false
}
