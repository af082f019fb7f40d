package lang

import "testing"

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		lang Language
	}{
		{".py", Python},
		{".js", JavaScript},
		{".ts", TypeScript},
		{".tsx", TSX},
		{".html", HTML},
		{".htm", HTML},
		{".css", CSS},
		{".scss", SCSS},
	}
	for _, tt := range tests {
		spec := ForExtension(tt.ext)
		if spec == nil {
			t.Errorf("ForExtension(%q) = nil, want %s", tt.ext, tt.lang)
			continue
		}
		if spec.Language != tt.lang {
			t.Errorf("ForExtension(%q).Language = %s, want %s", tt.ext, spec.Language, tt.lang)
		}
	}
}

func TestForLanguage(t *testing.T) {
	for _, l := range AllLanguages() {
		spec := ForLanguage(l)
		if spec == nil {
			t.Errorf("ForLanguage(%s) = nil", l)
		}
	}
}

func TestUnknownExtension(t *testing.T) {
	if spec := ForExtension(".xyz"); spec != nil {
		t.Errorf("ForExtension(.xyz) should be nil, got %v", spec)
	}
}

func TestPythonSpec(t *testing.T) {
	spec := ForLanguage(Python)
	if spec == nil {
		t.Fatal("Python spec not registered")
	}
	if spec.PackageIndicators[0] != "__init__.py" {
		t.Errorf("Python PackageIndicators: got %v, want [__init__.py]", spec.PackageIndicators)
	}
}

func TestClassifyCompositeSuffixWinsOverPlainExtension(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"src/app/widget/widget.component.ts", Angular},
		{"src/app/widget/widget.module.ts", Angular},
		{"src/app/widget/widget.service.ts", Angular},
		{"src/app/widget/widget.guard.ts", Angular},
		{"src/app/widget/widget.pipe.ts", Angular},
		{"src/app/widget/widget.component.html", Angular},
		{"src/app/widget/widget.component.css", Angular},
		{"src/app/widget/widget.ts", TypeScript},
		{"src/app/widget/widget.html", HTML},
		{"src/app/widget/widget.css", CSS},
		{"src/app/widget/widget.spec.ts", TypeScript},
		{"README.md", ""},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.path)
		if tt.want == "" {
			if ok {
				t.Errorf("Classify(%q) = %s, want unmatched", tt.path, got)
			}
			continue
		}
		if !ok || got != tt.want {
			t.Errorf("Classify(%q) = %s,%v want %s", tt.path, got, ok, tt.want)
		}
	}
}

func TestUnderlyingGrammar(t *testing.T) {
	if g := UnderlyingGrammar("x.component.ts"); g != TypeScript {
		t.Errorf("UnderlyingGrammar(.component.ts) = %s, want typescript", g)
	}
	if g := UnderlyingGrammar("x.component.html"); g != HTML {
		t.Errorf("UnderlyingGrammar(.component.html) = %s, want html", g)
	}
	if g := UnderlyingGrammar("x.component.css"); g != CSS {
		t.Errorf("UnderlyingGrammar(.component.css) = %s, want css", g)
	}
}
