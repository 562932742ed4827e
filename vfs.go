package spritepaint

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FolderResolver maps logical sheet paths onto a source folder and a
// destination folder of written color mods, and decides staleness by
// modification time.
type FolderResolver struct {
	SourceFolder      string
	DestinationFolder string
}

// Resolve returns the physical source file for a logical path, trying the
// path as given and then its color-mod qualified variants.
func (r *FolderResolver) Resolve(logical string) (string, bool) {
	for _, candidate := range colorModCandidates(logical) {
		full := filepath.Join(r.SourceFolder, filepath.FromSlash(candidate))
		if fi, err := os.Stat(full); err == nil && !fi.IsDir() {
			return full, true
		}
	}
	return "", false
}

// ColorModPath returns where the color mod of a logical path is written.
func (r *FolderResolver) ColorModPath(logical string) string {
	return filepath.Join(r.DestinationFolder, filepath.FromSlash(StripColorQualifier(logical)))
}

// IsStale reports whether the source of logical is newer than its written
// color mod, or the color mod does not exist yet. A missing source is never
// stale: there is nothing fresher to rebuild from.
func (r *FolderResolver) IsStale(logical string) bool {
	src, ok := r.Resolve(logical)
	if !ok {
		return false
	}
	si, err := os.Stat(src)
	if err != nil {
		return false
	}
	di, err := os.Stat(r.ColorModPath(logical))
	if err != nil {
		return true
	}
	return si.ModTime().After(di.ModTime())
}

// FinalizeSetup walks the source folder and registers every color-mod sheet
// it finds. A sheet is registered outdated when its written color mod is
// stale. It returns the number of sheets registered.
func (p *Painter) FinalizeSetup() (int, error) {
	root := p.resolver.SourceFolder
	count := 0
	err := filepath.WalkDir(root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSheetFile(full) {
			return nil
		}
		rel, err := filepath.Rel(root, full)
		if err != nil {
			return err
		}
		if !IsColorModSheet(rel) {
			return nil
		}
		dest := destinationFor(rel)
		p.RegisterSheet(full, dest, p.resolver.IsStale(dest), false)
		count++
		return nil
	})
	return count, err
}

// StripColorQualifier removes a ".col" secondary extension or a "_col" stem
// suffix from the file name, case-insensitively:
// "char_yellow_col.png" and "char_yellow.col.png" both become
// "char_yellow.png". Other names are returned unchanged.
func StripColorQualifier(name string) string {
	name = filepath.ToSlash(name)
	dir, base := path.Split(name)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	lower := strings.ToLower(stem)
	for _, q := range []string{".col", "_col"} {
		if strings.HasSuffix(lower, q) && len(stem) > len(q) {
			return dir + stem[:len(stem)-len(q)] + ext
		}
	}
	return name
}

// IsColorModSheet reports whether name carries a color qualifier.
func IsColorModSheet(name string) bool {
	return StripColorQualifier(name) != filepath.ToSlash(name)
}

// destinationFor turns a source-relative file path into the registry key of
// its sheet.
func destinationFor(rel string) string {
	return cleanDestination(StripColorQualifier(rel))
}

func colorModCandidates(logical string) []string {
	logical = filepath.ToSlash(logical)
	ext := path.Ext(logical)
	stem := strings.TrimSuffix(logical, ext)
	return []string{logical, stem + "_col" + ext, stem + ".col" + ext}
}

func isSheetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".bmp":
		return true
	}
	return false
}
