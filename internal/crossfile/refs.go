package crossfile

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/verdict-dev/verdict/internal/review"
)

var (
	pyFromImport = regexp.MustCompile(`(?m)^\s*from\s+\.?([\w.]+)\s+import\s+([\w, ]+)`)
	pyDef        = regexp.MustCompile(`(?m)^\s*(?:def|class)\s+(\w+)`)
	pyAssign     = regexp.MustCompile(`(?m)^(\w+)\s*=`)
	pyImportAll  = regexp.MustCompile(`(?m)^\s*(?:import\s+([\w.]+)|from\s+([\w.]+)\s+import)`)
	pyCall       = regexp.MustCompile(`\b([a-z][\w]*_[\w]+)\s*\(`)

	jsImport = regexp.MustCompile(`(?m)^\s*import\s+\{([^}]+)\}\s+from\s+['"]\.{1,2}/([\w./-]+)['"]`)
	jsExport = regexp.MustCompile(`(?m)^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var)\s+(\w+)`)
)

// pythonBuiltins covers the names a bare-call check must never flag.
var pythonBuiltins = map[string]struct{}{
	"print": {}, "len": {}, "range": {}, "open": {}, "str": {}, "int": {},
	"float": {}, "list": {}, "dict": {}, "set": {}, "tuple": {}, "type": {},
	"isinstance": {}, "enumerate": {}, "zip": {}, "map": {}, "filter": {},
	"sorted": {}, "sum": {}, "min": {}, "max": {}, "abs": {}, "round": {},
	"input": {}, "super": {}, "getattr": {}, "setattr": {}, "hasattr": {},
	"repr": {}, "format": {}, "vars": {}, "any": {}, "all": {},
}

// UnresolvedReferences checks that names imported from sibling files in the
// batch actually exist in those files, and that snake_case calls in Python
// files resolve somewhere: locally, in a sibling, or via an import.
func UnresolvedReferences(files []review.SourceFile, results []review.FileResult) []review.FeedbackItem {
	byModule := indexByModule(files)
	defs := make(map[string]map[string]struct{}, len(files))
	for _, f := range files {
		defs[f.Filename] = definedNames(f)
	}

	var items []review.FeedbackItem
	for _, f := range files {
		items = append(items, checkImports(f, byModule, defs)...)
		if strings.HasSuffix(f.Filename, ".py") {
			items = append(items, checkBareCalls(f, files, defs)...)
		}
	}
	return items
}

// indexByModule maps each file's extensionless basename to the file, so
// `from utils import x` can be matched against utils.py in the batch.
func indexByModule(files []review.SourceFile) map[string]review.SourceFile {
	m := make(map[string]review.SourceFile, len(files))
	for _, f := range files {
		base := path.Base(f.Filename)
		ext := path.Ext(base)
		m[strings.TrimSuffix(base, ext)] = f
	}
	return m
}

func definedNames(f review.SourceFile) map[string]struct{} {
	names := make(map[string]struct{})
	for _, re := range []*regexp.Regexp{pyDef, pyAssign, jsExport} {
		for _, m := range re.FindAllStringSubmatch(f.Content, -1) {
			names[m[1]] = struct{}{}
		}
	}
	return names
}

func checkImports(f review.SourceFile, byModule map[string]review.SourceFile, defs map[string]map[string]struct{}) []review.FeedbackItem {
	var items []review.FeedbackItem
	for _, m := range pyFromImport.FindAllStringSubmatch(f.Content, -1) {
		module := m[1]
		target, ok := byModule[lastSegment(module)]
		if !ok {
			continue // external module, out of scope
		}
		for _, name := range splitNames(m[2]) {
			if _, defined := defs[target.Filename][name]; !defined {
				items = append(items, unresolvedItem(f.Filename, name, target.Filename))
			}
		}
	}
	for _, m := range jsImport.FindAllStringSubmatch(f.Content, -1) {
		target, ok := byModule[lastSegment(m[2])]
		if !ok {
			continue
		}
		for _, name := range splitNames(m[1]) {
			if _, defined := defs[target.Filename][name]; !defined {
				items = append(items, unresolvedItem(f.Filename, name, target.Filename))
			}
		}
	}
	return items
}

// checkBareCalls flags snake_case calls in a Python file that resolve
// nowhere in the batch and are not imported from anywhere. The snake_case
// restriction keeps constructor calls and stdlib names out of scope.
func checkBareCalls(f review.SourceFile, files []review.SourceFile, defs map[string]map[string]struct{}) []review.FeedbackItem {
	if pyImportAll.MatchString(f.Content) {
		// Any import can bring names into scope that we cannot see,
		// so the bare-call check stands down for this file.
		return nil
	}
	seen := make(map[string]struct{})
	var missing []string
	for _, m := range pyCall.FindAllStringSubmatch(f.Content, -1) {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, builtin := pythonBuiltins[name]; builtin {
			continue
		}
		if definedAnywhere(name, files, defs) {
			continue
		}
		missing = append(missing, name)
	}
	sort.Strings(missing)
	var items []review.FeedbackItem
	for _, name := range missing {
		items = append(items, crossItem(
			review.CategoryLogic,
			review.SeverityHigh,
			fmt.Sprintf("%s calls %s(), which is not defined in any file of this batch and not imported.", f.Filename, name),
			fmt.Sprintf("Define %s or import it from the module that provides it.", name),
		))
	}
	return items
}

func definedAnywhere(name string, files []review.SourceFile, defs map[string]map[string]struct{}) bool {
	for _, f := range files {
		if _, ok := defs[f.Filename][name]; ok {
			return true
		}
	}
	return false
}

func unresolvedItem(importer, name, target string) review.FeedbackItem {
	return crossItem(
		review.CategoryLogic,
		review.SeverityHigh,
		fmt.Sprintf("%s imports %s from %s, but %s does not define it.", importer, name, target, target),
		fmt.Sprintf("Export %s from %s or correct the import in %s.", name, target, importer),
	)
}

func lastSegment(module string) string {
	module = strings.TrimSuffix(module, path.Ext(module))
	if i := strings.LastIndexAny(module, "./"); i >= 0 {
		return module[i+1:]
	}
	return module
}

// splitNames extracts the imported names from a comma-separated clause.
// Only the first token of each part counts: in `helper as h` the name
// resolved against the target file is helper, not the local alias.
func splitNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}
