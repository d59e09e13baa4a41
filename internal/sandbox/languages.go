package sandbox

import "slices"

// DefaultLanguage is used when a submission does not name one.
const DefaultLanguage = "python"

// supportedLanguages is the closed set of language identifiers accepted by
// the execution service. Order matches the service documentation.
var supportedLanguages = []string{
	"python",
	"cpp",
	"nodejs",
	"go",
	"go_test",
	"java",
	"php",
	"csharp",
	"bash",
	"typescript",
	"sql",
	"rust",
	"cuda",
	"lua",
	"R",
	"perl",
	"D_ut",
	"ruby",
	"scala",
	"julia",
	"pytest",
	"junit",
	"kotlin_script",
	"jest",
	"verilog",
	"python_gpu",
	"lean",
	"swift",
	"racket",
}

// Languages returns a copy of the supported language identifiers.
func Languages() []string {
	return slices.Clone(supportedLanguages)
}

// IsSupported reports whether lang is an accepted language identifier.
// Matching is case-sensitive ("R" is valid, "r" is not).
func IsSupported(lang string) bool {
	return slices.Contains(supportedLanguages, lang)
}
