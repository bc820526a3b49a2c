// Package prompt renders the per-turn system prompt from aggregated state
// and the action inventory.
//
// The template receives StateText and FunctionsText (the canonical line
// renderings) as well as the raw State and Functions maps. Lines are sorted by
// name so the same inputs always produce the same prompt.
package prompt
