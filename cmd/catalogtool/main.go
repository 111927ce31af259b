// Command catalogtool inspects and maintains catalog embedding artifacts.
package main

import (
	"flag"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"

	"inventory-scanner/internal/catalog"
)

func main() {
	catalogPath := flag.String("catalog", "catalog.json", "Catalog artifact path")
	mergePath := flag.String("merge", "", "Second catalog to merge in")
	outPath := flag.String("out", "", "Output path for merged catalog")
	flag.Parse()

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	if *mergePath != "" {
		other, err := catalog.Load(*mergePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load merge catalog: %v\n", err)
			os.Exit(1)
		}
		merged, err := mergeCatalogs(cat, other)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Merge failed: %v\n", err)
			os.Exit(1)
		}
		out := *outPath
		if out == "" {
			out = *catalogPath
		}
		if err := merged.Save(out); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Merged %d + %d entries -> %d, saved to %s\n",
			cat.Len(), other.Len(), merged.Len(), out)
		return
	}

	fmt.Printf("Catalog %s: %d items, dimension %d\n", *catalogPath, cat.Len(), cat.Dim())
	for _, e := range cat.Entries() {
		status := "ok"
		for _, v := range e.Vectors {
			// Load re-normalizes; anything off unit length here is a bug.
			if n := floats.Norm(v, 2); n < 0.999 || n > 1.001 {
				status = fmt.Sprintf("BAD NORM %.4f", n)
			}
		}
		fmt.Printf("  %-28s aliases=%d vectors=%d %s\n",
			e.Name, len(e.Aliases), len(e.Vectors), status)
	}
}

// mergeCatalogs combines two catalogs. Entries sharing a name pool their
// variant vectors and aliases.
func mergeCatalogs(a, b *catalog.Catalog) (*catalog.Catalog, error) {
	var entries []*catalog.Entry
	seen := make(map[string]*catalog.Entry)

	for _, e := range a.Entries() {
		copied := &catalog.Entry{Name: e.Name, Aliases: e.Aliases, Vectors: e.Vectors}
		entries = append(entries, copied)
		seen[e.Name] = copied
	}
	for _, e := range b.Entries() {
		if existing, ok := seen[e.Name]; ok {
			existing.Vectors = append(existing.Vectors, e.Vectors...)
			existing.Aliases = appendMissing(existing.Aliases, e.Aliases)
			continue
		}
		copied := &catalog.Entry{Name: e.Name, Aliases: e.Aliases, Vectors: e.Vectors}
		entries = append(entries, copied)
		seen[e.Name] = copied
	}

	return catalog.New(entries)
}

func appendMissing(dst, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}
