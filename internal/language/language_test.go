package language

import "testing"

func TestClassify_KnownExtensions(t *testing.T) {
	cases := []struct {
		filename string
		want     Language
	}{
		{"main.py", Python},
		{"app.ts", TypeScript},
		{"component.tsx", TypeScript},
		{"index.js", JavaScript},
		{"widget.jsx", JavaScript},
		{"Main.java", Java},
		{"engine.cpp", CPP},
		{"engine.cc", CPP},
		{"engine.cxx", CPP},
		{"legacy.c", CPP},
		{"header.h", CPP},
		{"header.hpp", CPP},
		{"Program.cs", CSharp},
		{"main.go", Go},
	}
	for _, tc := range cases {
		if got := Classify(tc.filename); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	if got := Classify("MAIN.PY"); got != Python {
		t.Errorf("Classify(MAIN.PY) = %q, want python", got)
	}
}

func TestClassify_UnknownFallsBackToDefault(t *testing.T) {
	for _, name := range []string{"readme.txt", "Makefile", "", "noext", "archive.tar.gz"} {
		if got := Classify(name); got != Default {
			t.Errorf("Classify(%q) = %q, want default %q", name, got, Default)
		}
	}
}

func TestClassifyDefault_CustomFallback(t *testing.T) {
	if got := ClassifyDefault("notes.md", Go); got != Go {
		t.Errorf("ClassifyDefault = %q, want go", got)
	}
	if got := ClassifyDefault("script.py", Go); got != Python {
		t.Errorf("ClassifyDefault should prefer the table: got %q", got)
	}
}

func TestParse(t *testing.T) {
	if lang, ok := Parse(" TypeScript "); !ok || lang != TypeScript {
		t.Errorf("Parse(TypeScript) = %q, %v", lang, ok)
	}
	if _, ok := Parse("cobol"); ok {
		t.Error("Parse(cobol) should not be supported")
	}
	if _, ok := Parse(""); ok {
		t.Error("Parse empty string should not be supported")
	}
}

func TestSupported_StableAndComplete(t *testing.T) {
	langs := Supported()
	if len(langs) != 7 {
		t.Fatalf("Supported() returned %d tags, want 7", len(langs))
	}
	for i := 1; i < len(langs); i++ {
		if langs[i-1] >= langs[i] {
			t.Errorf("Supported() not sorted at %d: %q >= %q", i, langs[i-1], langs[i])
		}
	}
}

func TestExtensions(t *testing.T) {
	exts := Extensions(CPP)
	if len(exts) != 6 {
		t.Errorf("Extensions(cpp) = %v, want 6 entries", exts)
	}
}
