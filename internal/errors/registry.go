package errors

import "sort"

// Template describes a registered error code.
type Template struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://xwui.dev/docs/errors/"

var registry = map[string]Template{
	// Runtime (X0xx)

	"X001": {
		Category: CategoryRuntime,
		Message:  "Mount target not found",
		Detail:   "The component mount target did not resolve to a node in the document.",
		DocURL:   docBase + "X001",
	},
	"X002": {
		Category: CategoryRuntime,
		Message:  "Loop stopped",
		Detail:   "The event loop that owns the document has shut down; no more work can run on it.",
		DocURL:   docBase + "X002",
	},
	"X003": {
		Category: CategoryRuntime,
		Message:  "No route matched",
		Detail:   "The requested path matched no registered route and no wildcard route exists.",
		DocURL:   docBase + "X003",
	},

	// Config (X1xx)

	"X100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No xwui.json, xwui.jsonc or xwui.yaml was found.",
		DocURL:   docBase + "X100",
	},
	"X101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field holds a value outside its allowed range or set.",
		DocURL:   docBase + "X101",
	},
	"X102": {
		Category: CategoryConfig,
		Message:  "Malformed configuration file",
		Detail:   "The configuration file could not be parsed.",
		DocURL:   docBase + "X102",
	},
	"X103": {
		Category: CategoryConfig,
		Message:  "Configuration write failed",
		Detail:   "The configuration could not be written to disk.",
		DocURL:   docBase + "X103",
	},

	// Storage (X2xx)

	"X200": {
		Category: CategoryStorage,
		Message:  "Storage backend unavailable",
		Detail:   "The configured storage backend could not be opened.",
		DocURL:   docBase + "X200",
	},
	"X201": {
		Category: CategoryStorage,
		Message:  "Storage quota exceeded",
		Detail:   "The value did not fit in the storage quota.",
		DocURL:   docBase + "X201",
	},

	// HTTP (X3xx)

	"X300": {
		Category: CategoryHTTP,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
		DocURL:   docBase + "X300",
	},
	"X301": {
		Category: CategoryHTTP,
		Message:  "Request failed",
		Detail:   "The HTTP request returned a non-success status or could not be sent.",
		DocURL:   docBase + "X301",
	},

	// CLI (X4xx)

	"X400": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command received an argument it cannot use.",
		DocURL:   docBase + "X400",
	},
	"X401": {
		Category: CategoryCLI,
		Message:  "Output write failed",
		Detail:   "The rendered page could not be written.",
		DocURL:   docBase + "X401",
	},
}

// Codes returns all registered codes, sorted.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a template.
func Register(code string, t Template) {
	registry[code] = t
}
