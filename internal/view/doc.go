// Package view turns the synced view state into what the dashboard shows.
//
// [Build] is pure: it picks the first [MaxRows] items of each collection,
// formats scores and enrollment, and chooses placeholders. [Renderer] writes
// the result as HTML from the embedded templates; [RenderText] writes it as
// plain-text tables for the CLI.
package view
