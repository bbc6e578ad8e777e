// Command xsdc compiles an XML Schema into a Go package: one record
// per complex type, one alias or enumeration per simple type, and the
// runtime descriptor tables needed to parse and validate documents
// against it.
package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"aqwari.net/xsdc/emitter"
	"aqwari.net/xsdc/internal/commandline"
	"aqwari.net/xsdc/runtime"
	"aqwari.net/xsdc/xsd"
)

const version = "0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("xsdc: ")

	var (
		outDir      = flag.String("o", ".", "output directory")
		pkgName     = flag.String("n", "", "base name for the generated package (defaults to the xsd file's stem)")
		showVersion = flag.Bool("version", false, "print the version and exit")
	)
	var suppressed commandline.Strings
	var forceProcess commandline.Strings
	flag.Var(&suppressed, "e", "suppress emission of the named namespace prefix, assumed linked separately (repeatable)")
	flag.Var(&forceProcess, "t", "force resolution of a named type even if otherwise unreferenced (repeatable)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-o dir] [-n name] [-e prefix] [-t type] xsd-file\n", os.Args[0])
		os.Exit(2)
	}

	xsdFile := flag.Arg(0)
	base := *pkgName
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(xsdFile), filepath.Ext(xsdFile))
	}

	if err := run(xsdFile, *outDir, base, []string(forceProcess), []string(suppressed)); err != nil {
		log.Fatal(err)
	}
}

func run(xsdFile, outDir, pkgName string, forceProcess, suppressed []string) error {
	var loadCfg xsd.Config
	loadCfg.Option(xsd.LogOutput(log.Default()), xsd.ForceProcess(forceProcess...))

	forest, err := loadCfg.Load(xsdFile)
	if err != nil {
		return fmt.Errorf("loading %s: %w", xsdFile, err)
	}

	graph, err := loadCfg.Resolve(forest)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", xsdFile, err)
	}

	for _, prefix := range suppressed {
		ns := forest.Roots[0].Resolve(prefix + ":_").Space
		for name := range graph {
			if name.Space == ns {
				delete(graph, name)
			}
		}
	}

	var root xml.Name
	for name := range graph {
		if name.Local == "_root_t" {
			root = name
			break
		}
	}

	var emitCfg emitter.Config
	emitCfg.Option(emitter.PackageName(pkgName), emitter.LogOutput(log.Default()))

	src, err := emitCfg.Emit(graph, root)
	if err != nil {
		return fmt.Errorf("emitting %s: %w", xsdFile, err)
	}

	outFile := filepath.Join(outDir, pkgName+".go")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outFile, src, 0o644); err != nil {
		return err
	}
	return writeRuntime(outDir)
}

// writeRuntime copies the embedded runtime package source tree into
// outDir/runtime, so generated code referencing runtime.X ships
// standalone rather than depending on this module at build time.
func writeRuntime(outDir string) error {
	dir := filepath.Join(outDir, "runtime")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	entries, err := runtime.Source.ReadDir(".")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		data, err := runtime.Source.ReadFile(entry.Name())
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, entry.Name()), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
