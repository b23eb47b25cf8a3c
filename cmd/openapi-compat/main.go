// Package main exports the generated OpenAPI document and checks that a
// revision does not drop paths, operations or response codes.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"sportpulse/docs"

	"gopkg.in/yaml.v3"
)

var methods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"patch": true, "head": true, "options": true,
}

// surface maps path -> method -> response codes.
type surface map[string]map[string]map[string]bool

func main() {
	export := flag.String("export", "", "write the current API document as YAML to this path")
	basePath := flag.String("base", "", "baseline swagger.yaml path")
	revisionPath := flag.String("revision", "", "revision swagger.yaml path (default: current API)")
	flag.Parse()

	if *export != "" {
		if err := exportCurrent(*export); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *export)
		if *basePath == "" {
			return
		}
	}

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat [-export <path>] -base <path> [-revision <path>]")
		os.Exit(2)
	}

	base, err := loadFile(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base document: %v\n", err)
		os.Exit(1)
	}
	var revision surface
	if *revisionPath == "" {
		revision, err = parse([]byte(docs.SwaggerInfo.ReadDoc()))
	} else {
		revision, err = loadFile(*revisionPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision document: %v\n", err)
		os.Exit(1)
	}

	if issues := compare(base, revision); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}
	fmt.Println("openapi compatibility check passed")
}

// currentYAML renders the generated JSON document as YAML.
func currentYAML() ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

func exportCurrent(path string) error {
	out, err := currentYAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

func loadFile(path string) (surface, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

// parse accepts YAML or JSON, since JSON is a YAML subset.
func parse(raw []byte) (surface, error) {
	var doc struct {
		Paths map[string]map[string]struct {
			Responses map[string]any `yaml:"responses"`
		} `yaml:"paths"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	out := make(surface, len(doc.Paths))
	for path, ops := range doc.Paths {
		for method, op := range ops {
			method = strings.ToLower(strings.TrimSpace(method))
			if !methods[method] {
				continue
			}
			codes := make(map[string]bool, len(op.Responses))
			for code := range op.Responses {
				if code = strings.ToLower(strings.TrimSpace(code)); code != "" {
					codes[code] = true
				}
			}
			if out[path] == nil {
				out[path] = make(map[string]map[string]bool)
			}
			out[path][method] = codes
		}
	}
	return out, nil
}

func compare(base, revision surface) []string {
	var issues []string
	for path, baseOps := range base {
		revOps, ok := revision[path]
		if !ok {
			issues = append(issues, "removed path: "+path)
			continue
		}
		for method, codes := range baseOps {
			revCodes, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}
			for code := range codes {
				if !revCodes[code] {
					issues = append(issues, fmt.Sprintf("removed response code: %s %s -> %s",
						strings.ToUpper(method), path, strings.ToUpper(code)))
				}
			}
		}
	}
	sort.Strings(issues)
	return issues
}
