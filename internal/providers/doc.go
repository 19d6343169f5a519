// Package providers abstracts the LLM services that perform code analysis.
//
// Each provider implements the [Client] interface: one outbound call per
// Analyze invocation, context-aware, returning the raw text content of the
// model response. Rate-limit responses are retried with exponential backoff;
// authentication failures are surfaced immediately as typed errors.
//
// Supported providers: gemini (default, matching the service the review
// prompts were tuned against), anthropic, and ollama/lmstudio for local
// OpenAI-compatible servers.
package providers
