// Command arxctl wraps the CORE (components A-K, L-N) for manual
// exercising: import a file, print its tree, and export a delta IFC file
// back out. It contains no business logic of its own, only composition.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arx-os/arxos/internal/cache"
	"github.com/arx-os/arxos/internal/commit"
	"github.com/arx-os/arxos/internal/common/logger"
	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/document"
	"github.com/arx-os/arxos/internal/hierarchy"
	"github.com/arx-os/arxos/internal/ifc"
	"github.com/arx-os/arxos/internal/ifcexport"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	level := os.Getenv("ARXCTL_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	log := logger.New(level)
	defer log.Sync()

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(log, os.Args[2:])
	case "tree":
		err = runTree(log, os.Args[2:])
	case "export":
		err = runExport(log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  arxctl import <ifc-file> <repo-root> <relative-doc-path> [actor-email]
  arxctl tree <repo-root> <relative-doc-path>
  arxctl export <repo-root> <relative-doc-path> <relative-ifc-path>`)
}

// runImport parses an IFC file, assembles the Building tree, populates the
// spatial index, and saves the canonical document into repoRoot. When an
// actor email is supplied and repoRoot sits under a git repository, it
// also commits the save.
func runImport(log *logger.Logger, args []string) error {
	if len(args) < 3 {
		usage()
		return fmt.Errorf("import: expected <ifc-file> <repo-root> <relative-doc-path>")
	}
	ifcPath, repoRoot, relDocPath := args[0], args[1], args[2]

	f, err := os.Open(ifcPath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	parsed, err := ifc.Parse(f, info.Size())
	if err != nil {
		return err
	}
	if len(parsed.Errors) > 0 {
		log.Warn("parse completed with errors", "count", len(parsed.Errors))
	}
	if parsed.Warned {
		log.Warn("IFC file exceeds the 100MB size warning threshold", "bytes", info.Size())
	}

	b := hierarchy.Build(parsed)
	idx := hierarchy.BuildSpatialIndex(b)
	log.Info("assembled building", "floors", len(b.Floors), "indexed_equipment", idx.Len())

	meta := document.Metadata{
		SourceFile:    filepath.Base(ifcPath),
		ParserVersion: "1",
		TotalEntities: parsed.Registry.Len(),
	}

	engine, err := commit.Open(repoRoot, cache.New(), log)
	if err != nil {
		return err
	}
	content, err := engine.Save(relDocPath, b, meta, nil)
	if err != nil {
		return err
	}
	fmt.Printf("saved %d bytes to %s\n", len(content), filepath.Join(repoRoot, relDocPath))

	if len(args) >= 4 {
		actorEmail := args[3]
		display, _, err := engine.Commit(relDocPath, content, actorEmail, commit.Metadata{
			Message: fmt.Sprintf("import %s", filepath.Base(ifcPath)),
		})
		if err != nil {
			return err
		}
		fmt.Printf("commit %s\n", display)
	}
	return nil
}

// runTree loads a previously saved document and prints its hierarchy.
func runTree(log *logger.Logger, args []string) error {
	if len(args) < 2 {
		usage()
		return fmt.Errorf("tree: expected <repo-root> <relative-doc-path>")
	}
	repoRoot, relDocPath := args[0], args[1]

	c := cache.New()
	b, _, _, err := c.Load(filepath.Join(repoRoot, relDocPath))
	if err != nil {
		return err
	}
	printTree(b)
	return nil
}

func printTree(b *domainbuilding.Building) {
	fmt.Printf("%s (%s)\n", b.DisplayName, b.CanonicalPath)
	for _, floor := range b.Floors {
		fmt.Printf("  %s\n", floor.DisplayName)
		for _, eq := range floor.Equipment {
			fmt.Printf("    [equipment] %s\n", eq.DisplayName)
		}
		for _, wing := range floor.Wings {
			fmt.Printf("    %s\n", wing.DisplayName)
			for _, eq := range wing.Equipment {
				fmt.Printf("      [equipment] %s\n", eq.DisplayName)
			}
			for _, room := range wing.Rooms {
				fmt.Printf("      %s\n", room.DisplayName)
				for _, eq := range room.Equipment {
					fmt.Printf("        [equipment] %s\n", eq.DisplayName)
				}
			}
		}
	}
}

// runExport loads a saved document and writes it back out as IFC, in delta
// mode when a prior export's sync state exists under repoRoot.
func runExport(log *logger.Logger, args []string) error {
	if len(args) < 3 {
		usage()
		return fmt.Errorf("export: expected <repo-root> <relative-doc-path> <relative-ifc-path>")
	}
	repoRoot, relDocPath, relIFCPath := args[0], args[1], args[2]

	c := cache.New()
	b, _, _, err := c.Load(filepath.Join(repoRoot, relDocPath))
	if err != nil {
		return err
	}

	out, err := ifcexport.Export(repoRoot, relIFCPath, b)
	if err != nil {
		return err
	}
	log.Info("exported ifc", "bytes", len(out), "path", relIFCPath)
	fmt.Printf("wrote %d bytes to %s\n", len(out), strings.TrimPrefix(filepath.Join(repoRoot, relIFCPath), repoRoot+string(filepath.Separator)))
	return nil
}
