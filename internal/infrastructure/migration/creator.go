package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MigrationFile describes a freshly created up/down pair.
type MigrationFile struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down SQL pair into dir. The version
// prefix is the creation time in 20060102150405 form so golang-migrate
// applies pairs in the order they were written.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("migration: create directory %s: %w", dir, err)
	}

	slug := slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("migration: name %q has no usable characters", name)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	mf := &MigrationFile{
		Version:  version,
		Name:     slug,
		UpPath:   filepath.Join(dir, version+"_"+slug+".up.sql"),
		DownPath: filepath.Join(dir, version+"_"+slug+".down.sql"),
	}

	upStub := migrationStub(slug, description, now, "up")
	if err := os.WriteFile(mf.UpPath, []byte(upStub), 0o644); err != nil {
		return nil, fmt.Errorf("migration: write %s: %w", mf.UpPath, err)
	}

	downStub := migrationStub(slug, description, now, "down")
	if err := os.WriteFile(mf.DownPath, []byte(downStub), 0o644); err != nil {
		// Do not leave a half pair behind
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("migration: write %s: %w", mf.DownPath, err)
	}

	return mf, nil
}

func migrationStub(slug, description string, createdAt time.Time, direction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- %s (%s)\n", slug, direction)
	fmt.Fprintf(&b, "-- created %s\n", createdAt.Format(time.RFC3339))
	if description != "" {
		fmt.Fprintf(&b, "-- %s\n", description)
	}
	b.WriteString("\n")
	return b.String()
}

// slugify lowers a migration name into a file-safe slug: letters, digits,
// and single underscores.
func slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the sorted base names of the migration pairs in
// dir. A missing directory is an empty list, not an error.
func ListMigrations(dir string) ([]string, error) {
	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("migration: list %s: %w", dir, err)
	}

	names := make([]string, 0, len(ups))
	for _, path := range ups {
		names = append(names, strings.TrimSuffix(filepath.Base(path), ".up.sql"))
	}
	sort.Strings(names)
	return names, nil
}
