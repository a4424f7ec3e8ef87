package heuristic

import (
	"io/fs"
	"os"
	"path/filepath"
)

var skippedDirs = map[string]struct{}{
	".venv":       {},
	"__pycache__": {},
}

// pythonFiles lists the Python sources under path in lexical order.
// A single .py file yields itself; a missing path or any other file yields nothing.
func pythonFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() && filepath.Ext(path) == ".py" {
			return []string{path}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skippedDirs[d.Name()]; skip && p != path {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) == ".py" {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
