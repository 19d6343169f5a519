// Verdict reviews source code with LLM providers and deterministic
// cross-file analysis, producing scored, structured feedback.
//
// It reviews files, directories, and stdin snippets from the command line,
// and exposes the same engine over HTTP for programmatic use.
//
// Usage:
//
//	verdict review main.py utils.py   # review files as one project
//	verdict review ./src              # review a directory tree
//	echo "x = 1" | verdict review -   # review a snippet from stdin
//	verdict serve                     # run the HTTP API
//	verdict languages                 # list supported languages
//
// See https://github.com/verdict-dev/verdict for full documentation.
package main
