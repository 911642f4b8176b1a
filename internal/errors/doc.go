// Package errors provides coded, actionable errors for the xwui command
// line and configuration loader.
//
// Each code maps to a registered template with a category, a short
// message, a longer detail and a documentation URL:
//
//	err := errors.New("X101").
//	    WithLocation("xwui.yaml", 4, 3).
//	    WithSuggestion("storage.backend must be memory, bolt or s3")
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// ERROR X101: Invalid configuration value
//	//
//	//   xwui.yaml:4:3
//	//
//	//        3 │ storage:
//	//   →    4 │   backend: disk
//	//          │   ^
//	//
//	//   Hint: storage.backend must be memory, bolt or s3
//
// Codes are grouped by category: X0xx runtime, X1xx config, X2xx storage,
// X3xx HTTP and X4xx CLI.
package errors
